// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrec

import (
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

// Decoder reads line records from an underlying, well-formed data source
// such as a raw capture file.
//
// Decoder assumes whole records are available and blocks for them; the
// host package carries its own accumulation state machine for live links
// with partial reads and timeouts.
type Decoder struct {
	r   io.Reader
	buf []byte
	err error
}

// NewDecoder creates a decoder reading records of width pixels from r.
func NewDecoder(r io.Reader, width int) *Decoder {
	return &Decoder{
		r:   r,
		buf: make([]byte, RecordLen(width)),
	}
}

// Decode reads the next line record into line. It returns io.EOF when
// the source is exhausted on a record boundary and
// io.ErrUnexpectedEOF (wrapped) when it ends inside a record.
func (dec *Decoder) Decode(line *Line) error {
	if dec.err != nil {
		return dec.err
	}

	_, err := io.ReadFull(dec.r, dec.buf[:HeaderLen])
	switch {
	case err == nil:
		// ok
	case xerrors.Is(err, io.EOF):
		dec.err = io.EOF
		return dec.err
	default:
		dec.err = xerrors.Errorf("vrec: could not read line index: %w", err)
		return dec.err
	}

	_, err = io.ReadFull(dec.r, dec.buf[HeaderLen:])
	if err != nil {
		if xerrors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		dec.err = xerrors.Errorf("vrec: could not read line pixels: %w", err)
		return dec.err
	}

	line.Index = binary.BigEndian.Uint16(dec.buf[:HeaderLen])
	line.Pixels = append(line.Pixels[:0], dec.buf[HeaderLen:]...)
	return nil
}

// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrec

import (
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

// Encoder packs captured lines into line records and writes them to an
// output stream.
//
// Each record is issued as a single Write call so that two records can
// never interleave on the link. Samples wider than the 8-bit wire pixel
// are reduced with an arithmetic right shift discarding the low-order
// bits; the shift is fixed at construction time and documented by the
// sensor mode, not negotiated per record.
type Encoder struct {
	w     io.Writer
	shift uint
	buf   []byte
}

// NewEncoder returns a new Encoder writing records of width pixels to w,
// quantizing each sample by shift bits.
func NewEncoder(w io.Writer, width int, shift uint) *Encoder {
	return &Encoder{
		w:     w,
		shift: shift,
		buf:   make([]byte, RecordLen(width)),
	}
}

// Encode writes one line record for the given window-relative index and
// raw samples.
func (enc *Encoder) Encode(idx uint16, samples []uint16) error {
	if got, want := len(samples), len(enc.buf)-HeaderLen; got != want {
		return xerrors.Errorf("vrec: invalid line width (got=%d, want=%d)", got, want)
	}

	binary.BigEndian.PutUint16(enc.buf[:HeaderLen], idx)
	for i, v := range samples {
		enc.buf[HeaderLen+i] = uint8(v >> enc.shift)
	}

	_, err := enc.w.Write(enc.buf)
	if err != nil {
		return xerrors.Errorf("vrec: could not write line record %d: %w", idx, err)
	}
	return nil
}

// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host reassembles the line records streamed by a capture
// device into whole frames, riding out short reads, stalls and frames
// cut short by missing lines.
package host

import (
	"encoding/binary"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/go-pcam/pcam/link"
	"github.com/go-pcam/pcam/vrec"
)

// ErrStalled reports that the read timeout expired without completing a
// record. The reassembler keeps its state: calling Next again resumes
// where the stream left off.
var ErrStalled = errors.New("host: stream stalled")

// Reassembler turns the record stream of a link into frames.
//
// Records carry window-relative line indices that increase within a
// frame. A record whose index does not increase marks the start of the
// next frame: whatever was accumulated so far is emitted as a partial
// frame and the record opens a new one. Lines never received keep the
// pixels of the previous frame in the buffer, so a partial frame shows
// stale rows rather than black ones.
type Reassembler struct {
	lnk link.Link
	cfg config

	session uuid.UUID
	seq     uint64

	rec    int     // full record length
	buf    []uint8 // partial record accumulator
	stalls int     // consecutive empty timeouts

	pix    []uint8 // working frame, lines*width
	mark   []bool
	active int // distinct rows received this frame
	last   int // last index seen, -1 at frame start

	out     *Frame // frame emitted by a wrap, returned first
	dropped uint64 // out-of-range records and torn partials
}

// NewReassembler returns a reassembler reading records from lnk. Each
// reassembler owns one capture session identifier that tags every frame
// it emits.
func NewReassembler(lnk link.Link, opts ...Option) *Reassembler {
	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ra := &Reassembler{
		lnk:     lnk,
		cfg:     cfg,
		session: uuid.New(),
		rec:     vrec.RecordLen(cfg.width),
		last:    -1,
	}
	ra.buf = make([]uint8, 0, ra.rec)
	ra.pix = make([]uint8, cfg.lines*cfg.width)
	ra.mark = make([]bool, cfg.lines)
	return ra
}

// Dropped returns the number of records discarded so far, whether for
// an out-of-range index or as the torn tail of a stalled record.
func (ra *Reassembler) Dropped() uint64 { return ra.dropped }

// Next returns the next reassembled frame. It returns ErrStalled when
// the stream goes quiet for the configured timeout, and io.EOF once the
// stream ends cleanly between records.
func (ra *Reassembler) Next() (*Frame, error) {
	for {
		if f := ra.out; f != nil {
			ra.out = nil
			return f, nil
		}

		err := ra.fill()
		if err != nil {
			return nil, err
		}

		f := ra.accept(ra.buf[:ra.rec])
		ra.buf = ra.buf[:0]
		if f != nil {
			return f, nil
		}
	}
}

// fill accumulates bytes until buf holds one full record. Short reads
// extend the accumulator; an empty timeout surfaces as ErrStalled. A
// second consecutive empty timeout over a partial record gives up on
// it: the bytes are discarded so the next call starts on a fresh
// record boundary.
func (ra *Reassembler) fill() error {
	err := ra.lnk.SetReadTimeout(ra.cfg.timeout)
	if err != nil {
		return xerrors.Errorf("host: could not arm read timeout: %w", err)
	}

	for len(ra.buf) < ra.rec {
		n, err := ra.lnk.Read(ra.buf[len(ra.buf):ra.rec])
		switch {
		case err == nil:
			if n > 0 {
				ra.stalls = 0
			}
			ra.buf = ra.buf[:len(ra.buf)+n]
		case errors.Is(err, link.ErrTimeout):
			ra.stalls++
			if len(ra.buf) > 0 && ra.stalls >= 2 {
				ra.buf = ra.buf[:0]
				ra.dropped++
			}
			return ErrStalled
		default:
			if len(ra.buf) > 0 {
				return xerrors.Errorf("host: stream ended mid-record: %w", err)
			}
			return err
		}
	}
	ra.stalls = 0
	return nil
}

// accept folds one complete record into the working frame and returns
// the frame it completes, if any.
func (ra *Reassembler) accept(rec []uint8) *Frame {
	idx := int(binary.BigEndian.Uint16(rec[:vrec.HeaderLen]))
	if idx >= ra.cfg.lines {
		ra.dropped++
		return nil
	}

	var emitted *Frame
	if ra.last >= 0 && idx <= ra.last {
		// index wrapped: this record opens the next frame.
		if ra.active > 0 {
			emitted = ra.emit()
		}
		ra.resetFrame()
	}

	copy(ra.pix[idx*ra.cfg.width:], rec[vrec.HeaderLen:])
	if !ra.mark[idx] {
		ra.mark[idx] = true
		ra.active++
	}
	ra.last = idx

	if ra.active == ra.cfg.lines {
		f := ra.emit()
		ra.resetFrame()
		if emitted != nil {
			// both a wrap-cut frame and a completed one: hand the
			// older one out first.
			ra.out = f
			return emitted
		}
		return f
	}
	return emitted
}

func (ra *Reassembler) emit() *Frame {
	ra.seq++
	f := &Frame{
		Session: ra.session,
		Seq:     ra.seq,
		Width:   ra.cfg.width,
		Lines:   ra.cfg.lines,
		Rows:    ra.active,
		Pix:     make([]uint8, len(ra.pix)),
	}
	copy(f.Pix, ra.pix)
	return f
}

func (ra *Reassembler) resetFrame() {
	for i := range ra.mark {
		ra.mark[i] = false
	}
	ra.active = 0
	ra.last = -1
}

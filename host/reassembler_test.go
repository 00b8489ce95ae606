// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/go-pcam/pcam/link"
)

// scriptLink replays a script of read events: a byte chunk is served as
// one short read, a nil chunk as one empty timeout. Reads past the end
// of the script return io.EOF.
type scriptLink struct {
	chunks [][]byte
	pos    int
}

func (sl *scriptLink) Read(p []byte) (int, error) {
	if sl.pos >= len(sl.chunks) {
		return 0, io.EOF
	}
	c := sl.chunks[sl.pos]
	if c == nil {
		sl.pos++
		return 0, link.ErrTimeout
	}
	n := copy(p, c)
	if n < len(c) {
		sl.chunks[sl.pos] = c[n:]
	} else {
		sl.pos++
	}
	return n, nil
}

func (sl *scriptLink) Write(p []byte) (int, error)          { return len(p), nil }
func (sl *scriptLink) SetReadTimeout(d time.Duration) error { return nil }
func (sl *scriptLink) Present() bool                        { return true }
func (sl *scriptLink) Close() error                         { return nil }

var _ link.Link = (*scriptLink)(nil)

func rec(idx uint16, px ...byte) []byte {
	b := []byte{byte(idx >> 8), byte(idx)}
	return append(b, px...)
}

func cat(recs ...[]byte) []byte {
	var out []byte
	for _, r := range recs {
		out = append(out, r...)
	}
	return out
}

// split carves raw into chunks of the given sizes, the remainder going
// into a final chunk.
func split(raw []byte, sizes ...int) [][]byte {
	var chunks [][]byte
	for _, n := range sizes {
		chunks = append(chunks, raw[:n])
		raw = raw[n:]
	}
	if len(raw) > 0 {
		chunks = append(chunks, raw)
	}
	return chunks
}

func TestReassemble(t *testing.T) {
	raw := cat(
		rec(0, 1, 2, 3),
		rec(1, 4, 5, 6),
		rec(0, 7, 8, 9),
		rec(1, 10, 11, 12),
	)

	for _, tc := range []struct {
		name  string
		sizes []int
	}{
		{name: "whole", sizes: nil},
		{name: "records", sizes: []int{5, 5, 5}},
		{name: "split-header", sizes: []int{1, 4, 1, 4, 1, 4}},
		{name: "ragged", sizes: []int{3, 1, 7, 2, 4}},
		{name: "bytewise", sizes: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			sl := &scriptLink{chunks: split(raw, tc.sizes...)}
			ra := NewReassembler(sl, WithWidth(3), WithLines(2))

			f1, err := ra.Next()
			if err != nil {
				t.Fatalf("could not reassemble frame 1: %+v", err)
			}
			if got, want := f1.Pix, []uint8{1, 2, 3, 4, 5, 6}; !reflect.DeepEqual(got, want) {
				t.Fatalf("invalid frame 1 pixels:\ngot= %v\nwant=%v", got, want)
			}
			if f1.Seq != 1 || !f1.Complete() {
				t.Fatalf("invalid frame 1: seq=%d rows=%d", f1.Seq, f1.Rows)
			}

			f2, err := ra.Next()
			if err != nil {
				t.Fatalf("could not reassemble frame 2: %+v", err)
			}
			if got, want := f2.Pix, []uint8{7, 8, 9, 10, 11, 12}; !reflect.DeepEqual(got, want) {
				t.Fatalf("invalid frame 2 pixels:\ngot= %v\nwant=%v", got, want)
			}
			if f2.Seq != 2 {
				t.Fatalf("invalid frame 2 seq: got=%d, want=2", f2.Seq)
			}
			if f1.Session != f2.Session {
				t.Fatalf("frames from one session carry different session ids")
			}

			_, err = ra.Next()
			if err != io.EOF {
				t.Fatalf("expected io.EOF at end of stream, got err=%v", err)
			}
		})
	}
}

func TestReassembleWrap(t *testing.T) {
	// line 2 of the first frame never arrives: the index wrap on the
	// next frame forces the partial out, with the missing row left as
	// it was.
	sl := &scriptLink{chunks: [][]byte{cat(
		rec(0, 1, 2),
		rec(1, 3, 4),
		rec(0, 5, 6),
		rec(1, 7, 8),
		rec(2, 9, 10),
	)}}
	ra := NewReassembler(sl, WithWidth(2), WithLines(3))

	f1, err := ra.Next()
	if err != nil {
		t.Fatalf("could not reassemble frame 1: %+v", err)
	}
	if f1.Complete() {
		t.Fatalf("frame 1 should be partial: rows=%d", f1.Rows)
	}
	if got, want := f1.Rows, 2; got != want {
		t.Fatalf("invalid frame 1 rows: got=%d, want=%d", got, want)
	}
	if got, want := f1.Pix, []uint8{1, 2, 3, 4, 0, 0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid frame 1 pixels:\ngot= %v\nwant=%v", got, want)
	}

	f2, err := ra.Next()
	if err != nil {
		t.Fatalf("could not reassemble frame 2: %+v", err)
	}
	if !f2.Complete() {
		t.Fatalf("frame 2 should be complete: rows=%d", f2.Rows)
	}
	if got, want := f2.Pix, []uint8{5, 6, 7, 8, 9, 10}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid frame 2 pixels:\ngot= %v\nwant=%v", got, want)
	}
}

func TestReassembleRepeatedIndex(t *testing.T) {
	// a non-increasing index is a frame boundary even when it repeats
	// the previous one.
	sl := &scriptLink{chunks: [][]byte{cat(
		rec(0, 1, 2),
		rec(0, 3, 4),
		rec(1, 5, 6),
	)}}
	ra := NewReassembler(sl, WithWidth(2), WithLines(2))

	f1, err := ra.Next()
	if err != nil {
		t.Fatalf("could not reassemble frame 1: %+v", err)
	}
	if got, want := f1.Rows, 1; got != want {
		t.Fatalf("invalid frame 1 rows: got=%d, want=%d", got, want)
	}

	f2, err := ra.Next()
	if err != nil {
		t.Fatalf("could not reassemble frame 2: %+v", err)
	}
	if got, want := f2.Pix, []uint8{3, 4, 5, 6}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid frame 2 pixels:\ngot= %v\nwant=%v", got, want)
	}
}

func TestReassembleStall(t *testing.T) {
	sl := &scriptLink{chunks: [][]byte{
		rec(0, 1, 2)[:3], // torn record
		nil,              // first empty timeout: partial kept
		nil,              // second: partial discarded
		cat(
			rec(0, 5, 6),
			rec(1, 7, 8),
		),
	}}
	ra := NewReassembler(sl, WithWidth(2), WithLines(2))

	_, err := ra.Next()
	if err != ErrStalled {
		t.Fatalf("expected first stall, got err=%v", err)
	}
	_, err = ra.Next()
	if err != ErrStalled {
		t.Fatalf("expected second stall, got err=%v", err)
	}
	if got, want := ra.Dropped(), uint64(1); got != want {
		t.Fatalf("invalid dropped count: got=%d, want=%d", got, want)
	}

	f, err := ra.Next()
	if err != nil {
		t.Fatalf("could not reassemble after resync: %+v", err)
	}
	if got, want := f.Pix, []uint8{5, 6, 7, 8}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid pixels after resync:\ngot= %v\nwant=%v", got, want)
	}
}

func TestReassembleIdle(t *testing.T) {
	// a quiet link with no partial record is a stall too, but nothing
	// gets discarded.
	sl := &scriptLink{chunks: [][]byte{
		nil,
		nil,
		cat(
			rec(0, 1, 2),
			rec(1, 3, 4),
		),
	}}
	ra := NewReassembler(sl, WithWidth(2), WithLines(2))

	for i := 0; i < 2; i++ {
		_, err := ra.Next()
		if err != ErrStalled {
			t.Fatalf("stall %d: got err=%v", i, err)
		}
	}
	if got := ra.Dropped(); got != 0 {
		t.Fatalf("invalid dropped count: got=%d, want=0", got)
	}

	f, err := ra.Next()
	if err != nil {
		t.Fatalf("could not reassemble after idle: %+v", err)
	}
	if !f.Complete() {
		t.Fatalf("frame should be complete: rows=%d", f.Rows)
	}
}

func TestReassembleOutOfRange(t *testing.T) {
	sl := &scriptLink{chunks: [][]byte{cat(
		rec(7, 9, 9), // outside the window
		rec(0, 1, 2),
		rec(1, 3, 4),
	)}}
	ra := NewReassembler(sl, WithWidth(2), WithLines(2))

	f, err := ra.Next()
	if err != nil {
		t.Fatalf("could not reassemble frame: %+v", err)
	}
	if got, want := f.Pix, []uint8{1, 2, 3, 4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid pixels:\ngot= %v\nwant=%v", got, want)
	}
	if got, want := ra.Dropped(), uint64(1); got != want {
		t.Fatalf("invalid dropped count: got=%d, want=%d", got, want)
	}
}

func TestReassembleTornTail(t *testing.T) {
	sl := &scriptLink{chunks: [][]byte{cat(
		rec(0, 1, 2),
		rec(1, 3, 4),
		rec(0, 5, 6)[:2],
	)}}
	ra := NewReassembler(sl, WithWidth(2), WithLines(2))

	_, err := ra.Next()
	if err != nil {
		t.Fatalf("could not reassemble frame: %+v", err)
	}

	_, err = ra.Next()
	if err == nil || err == io.EOF {
		t.Fatalf("expected a mid-record error, got err=%v", err)
	}
}

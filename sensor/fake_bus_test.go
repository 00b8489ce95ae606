// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sensor

import (
	"bytes"
	"time"

	"github.com/go-pcam/pcam/link"
)

const (
	tClk = 1 << 24
	tLV  = 1 << 25
	tFV  = 1 << 26
)

// fakeBus replays a scripted trace of port states, one entry per state
// read. Once the trace runs out, every read returns tail.
type fakeBus struct {
	pm    pinmap
	trace []uint32
	pos   int
	tail  uint32
}

func newFakeBus(trace []uint32) *fakeBus {
	return &fakeBus{pm: pinmaps[Depth10], trace: trace}
}

func (fb *fakeBus) state() uint32 {
	if fb.pos < len(fb.trace) {
		st := fb.trace[fb.pos]
		fb.pos++
		return st
	}
	return fb.tail
}

func (fb *fakeBus) pins() pinmap { return fb.pm }

var _ bus = (*fakeBus)(nil)

// traceBuilder assembles port-state traces matching the polling order
// of the capture loops.
type traceBuilder struct {
	st []uint32
}

func (tb *traceBuilder) add(states ...uint32) {
	tb.st = append(tb.st, states...)
}

// line appends one line: line-valid low, line-valid high, then one
// low/high clock pair per pixel with the sample riding the high phase.
func (tb *traceBuilder) line(pixels []uint16) {
	tb.add(tFV)
	tb.add(tFV | tLV)
	for _, px := range pixels {
		tb.add(tFV|tLV, tFV|tLV|tClk|uint32(px))
	}
}

// frame appends one whole frame: a frame-valid boundary, the given
// lines each preceded by the per-line frame-valid check, and a trailing
// frame-valid drop.
func (tb *traceBuilder) frame(rows [][]uint16) {
	tb.add(0)
	tb.add(tFV)
	for _, row := range rows {
		tb.add(tFV)
		tb.line(row)
	}
	tb.add(0)
}

// testLink is an in-memory link: commands queued in cmds are read by
// the device, records written by the device land in out.
type testLink struct {
	cmds bytes.Buffer
	out  bytes.Buffer
	gone bool
}

func (tl *testLink) Read(p []byte) (int, error) {
	n, _ := tl.cmds.Read(p)
	if n > 0 {
		return n, nil
	}
	return 0, link.ErrTimeout
}

func (tl *testLink) Write(p []byte) (int, error) { return tl.out.Write(p) }

func (tl *testLink) SetReadTimeout(d time.Duration) error { return nil }

func (tl *testLink) Present() bool { return !tl.gone }

func (tl *testLink) Close() error { return nil }

var _ link.Link = (*testLink)(nil)

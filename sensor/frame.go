// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sensor

import (
	"golang.org/x/xerrors"
)

var errFrameStart = xerrors.New("sensor: timeout waiting for frame start")

// window returns the [lo,hi) band of n lines centered in a frame of
// height lines. n is clamped to the frame height.
func window(height, n int) (lo, hi int) {
	if n <= 0 {
		return 0, 0
	}
	if n >= height {
		return 0, height
	}
	lo = (height - n) / 2
	return lo, lo + n
}

// captureFrame drives the capture of one whole frame: it finds the
// frame boundary, captures every line of the selected window into the
// device row buffers, and then encodes the captured rows onto the link.
//
// Whether the frame is transmitted is decided once, at the frame
// boundary: a streaming toggle landing mid-frame takes effect on the
// next frame, never on a partially sent one. Lines above the window are
// still consumed into a scratch row so that the line count stays in
// step with the sensor.
//
// A single line that never turns valid, or whose clock stalls, is a
// missed line: counted, skipped, and the next line attempted. Only the
// frame-valid wait and the per-frame line budget abandon a frame.
func (dev *Device) captureFrame() error {
	send := dev.params.streaming
	lo, hi := window(dev.cfg.height, int(dev.params.lines))
	for i := range dev.valid[:hi-lo] {
		dev.valid[i] = false
	}

	err := critical(func() error {
		pm := dev.bus.pins()

		// frame boundary: FV deassert, then assert.
		n := 0
		for pm.frameValid(dev.bus.state()) {
			n++
			if n >= dev.cfg.budget.frameStart {
				return errFrameStart
			}
		}
		for !pm.frameValid(dev.bus.state()) {
			n++
			if n >= dev.cfg.budget.frameStart {
				return errFrameStart
			}
		}

		for line := 0; line < dev.cfg.budget.lines && line < hi; line++ {
			if !pm.frameValid(dev.bus.state()) {
				break
			}
			row := dev.scratch
			if line >= lo {
				row = dev.rows[line-lo]
			}
			err := captureLine(dev.bus, row,
				dev.cfg.budget.lineStart, dev.cfg.budget.edge,
				dev.cfg.halfRate,
			)
			if err != nil {
				if !pm.frameValid(dev.bus.state()) {
					// frame ended while waiting for the next line.
					break
				}
				dev.cnt.missed++
				continue
			}
			dev.cnt.lines++
			if line >= lo {
				dev.valid[line-lo] = true
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	dev.cnt.frames++
	if !send {
		return nil
	}

	for i, ok := range dev.valid[:hi-lo] {
		if !ok {
			continue
		}
		err := dev.enc.Encode(uint16(i), dev.rows[i])
		if err != nil {
			return xerrors.Errorf("sensor: could not send line %d: %w", i, err)
		}
		dev.cnt.sent++
	}
	return nil
}

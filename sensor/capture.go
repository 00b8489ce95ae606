// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sensor

import (
	"runtime"

	"golang.org/x/xerrors"
)

var (
	errLineStart = xerrors.New("sensor: timeout waiting for line start")
	errClockEdge = xerrors.New("sensor: timeout waiting for pixel clock edge")
)

// critical pins the calling goroutine to its OS thread for the duration
// of f. Line capture races the pixel clock, so the capture loops must
// not migrate between threads mid-line. f must not allocate.
func critical(f func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return f()
}

// captureLine samples one full line of pixels from the bus into dst.
//
// The line boundary is found by first waiting for line-valid to
// deassert, then to assert again: entering mid-line must not yield a
// line stitched from two halves. Each pixel is then taken on a rising
// pixel-clock edge, qualified by observing the clock low and then high,
// with the data bits read from the same port access as the high phase.
//
// startBudget bounds the polls spent waiting for the line boundary,
// edgeBudget the polls spent on any single clock phase. A stalled
// sensor trips one of the two budgets instead of hanging the loop.
func captureLine(b bus, dst []uint16, startBudget, edgeBudget int, halfRate bool) error {
	pm := b.pins()

	// line-valid deassert, then assert.
	n := 0
	for pm.lineValid(b.state()) {
		n++
		if n >= startBudget {
			return errLineStart
		}
	}
	for !pm.lineValid(b.state()) {
		n++
		if n >= startBudget {
			return errLineStart
		}
	}

	skip := 0
	if halfRate {
		skip = 1
	}

	for i := range dst {
		st, err := risingEdge(b, pm, edgeBudget)
		if err != nil {
			return err
		}
		dst[i] = pm.sample(st)
		for j := 0; j < skip; j++ {
			if _, err := risingEdge(b, pm, edgeBudget); err != nil {
				return err
			}
		}
	}
	return nil
}

// risingEdge waits for a low-then-high transition of the pixel clock
// and returns the port state observed during the high phase.
func risingEdge(b bus, pm pinmap, budget int) (uint32, error) {
	n := 0
	for pm.pixclk(b.state()) {
		n++
		if n >= budget {
			return 0, errClockEdge
		}
	}
	for {
		st := b.state()
		if pm.pixclk(st) {
			return st, nil
		}
		n++
		if n >= budget {
			return 0, errClockEdge
		}
	}
}

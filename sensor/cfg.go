// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sensor

import (
	"time"
)

// config holds the per-session capture parameters, fixed at device
// creation. The host agrees on width, height and depth out of band;
// they are never renegotiated over the link.
type config struct {
	width  int
	height int
	depth  Depth
	mode   Mode

	// halfRate samples every other pixel clock, halving the
	// horizontal resolution for slow links.
	halfRate bool

	budget struct {
		lineStart  int // polls waiting for line-valid
		edge       int // polls per pixel-clock phase
		frameStart int // polls waiting for frame-valid
		lines      int // line-capture attempts per frame
	}

	cmdTimeout time.Duration

	i2c struct {
		enabled bool
		bus     int
		addr    uint8
	}
}

func newConfig() config {
	var cfg config
	cfg.width = DefaultWidth
	cfg.height = DefaultHeight
	cfg.depth = Depth10
	cfg.mode = ModeMaster
	cfg.budget.lineStart = 100000
	cfg.budget.edge = 10000
	cfg.budget.frameStart = 4000000
	cfg.budget.lines = DefaultHeight + 45 // visible + vertical blanking, with slack
	cfg.cmdTimeout = 5 * time.Millisecond
	return cfg
}

// params is the runtime configuration: mutated only by the command
// drain, read by the frame driver and the register collaborator. Both
// run on the one device loop, alternating deterministically, so no
// synchronization is needed.
type params struct {
	exposure  uint16 // microseconds
	again     uint8  // analog gain code
	dgain     uint8  // digital gain code
	lines     uint16 // active line count
	streaming bool
}

func newParams(cfg config) params {
	return params{
		exposure:  10000,
		again:     16,
		dgain:     4,
		lines:     uint16(cfg.height),
		streaming: true,
	}
}

// Option configures a capture device.
type Option func(cfg *config)

// WithWidth sets the number of pixels captured per line.
func WithWidth(w int) Option {
	return func(cfg *config) {
		cfg.width = w
	}
}

// WithHeight sets the number of visible lines per frame.
func WithHeight(h int) Option {
	return func(cfg *config) {
		cfg.height = h
		cfg.budget.lines = h + 45
	}
}

// WithDepth selects the readout depth (bus width and quantization).
func WithDepth(d Depth) Option {
	return func(cfg *config) {
		cfg.depth = d
	}
}

// WithMode selects the sensor timing profile.
func WithMode(m Mode) Option {
	return func(cfg *config) {
		cfg.mode = m
	}
}

// WithHalfRate makes the line capture keep one pixel out of two.
func WithHalfRate(on bool) Option {
	return func(cfg *config) {
		cfg.halfRate = on
	}
}

// WithLineBudget bounds the busy-poll counts of the line capture state
// machine: start polls waiting for line-valid, edge polls per clock
// phase.
func WithLineBudget(start, edge int) Option {
	return func(cfg *config) {
		cfg.budget.lineStart = start
		cfg.budget.edge = edge
	}
}

// WithFrameBudget bounds the frame driver: start polls waiting for
// frame-valid, lines capture attempts per frame.
func WithFrameBudget(start, lines int) Option {
	return func(cfg *config) {
		cfg.budget.frameStart = start
		cfg.budget.lines = lines
	}
}

// WithCmdTimeout bounds each command-drain read on the link.
func WithCmdTimeout(d time.Duration) Option {
	return func(cfg *config) {
		cfg.cmdTimeout = d
	}
}

// WithI2C connects the register collaborator to the management bus
// device i2c-<bus> at the given sensor address.
func WithI2C(bus int, addr uint8) Option {
	return func(cfg *config) {
		cfg.i2c.enabled = true
		cfg.i2c.bus = bus
		cfg.i2c.addr = addr
	}
}

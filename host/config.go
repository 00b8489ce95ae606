// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "time"

type config struct {
	width   int
	lines   int
	timeout time.Duration
}

func newConfig() config {
	return config{
		width:   752,
		lines:   480,
		timeout: 500 * time.Millisecond,
	}
}

// Option configures a Reassembler.
type Option func(*config)

// WithWidth sets the expected record width in pixels.
func WithWidth(w int) Option {
	return func(cfg *config) {
		cfg.width = w
	}
}

// WithLines sets the number of lines per frame.
func WithLines(n int) Option {
	return func(cfg *config) {
		cfg.lines = n
	}
}

// WithTimeout sets the read timeout used to detect a stalled stream.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) {
		cfg.timeout = d
	}
}

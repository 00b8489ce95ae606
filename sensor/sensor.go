// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sensor drives a parallel-output CMOS image sensor: it samples
// the pixel bus synchronously with the pixel clock, packs each captured
// line into a vrec line record and streams the records over a link,
// draining runtime command records from the same link between frames.
//
// The device is single-threaded and cooperative: one loop alternates
// frame capture and command handling, so the runtime parameters need no
// locking. Line sampling itself is an exclusive-access window pinned to
// one OS thread.
package sensor // import "github.com/go-pcam/pcam/sensor"

const (
	// DefaultWidth is the number of active pixels per sensor line.
	DefaultWidth = 752

	// DefaultHeight is the number of visible lines per sensor frame.
	DefaultHeight = 480
)

// Depth selects the sensor readout depth, and with it the pixel-bus
// width and the wire quantization.
type Depth uint8

const (
	// Depth10 reads 10-bit linear samples; the wire carries the top 8
	// bits (arithmetic shift by 2).
	Depth10 Depth = iota

	// Depth8 reads 8-bit companded samples, sent as-is.
	Depth8
)

// shift returns the bit-depth reduction applied by the packetizer.
func (d Depth) shift() uint {
	if d == Depth10 {
		return 2
	}
	return 0
}

func (d Depth) String() string {
	switch d {
	case Depth10:
		return "10-bit"
	case Depth8:
		return "8-bit"
	}
	return "unknown"
}

// Mode names a sensor timing profile.
type Mode uint8

const (
	// ModeMaster lets the sensor free-run on its own frame timing.
	ModeMaster Mode = iota

	// ModeSlave syncs exposure and readout to external trigger pins.
	ModeSlave
)

func (m Mode) String() string {
	switch m {
	case ModeMaster:
		return "master"
	case ModeSlave:
		return "slave"
	}
	return "unknown"
}

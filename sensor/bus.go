// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sensor

// pinmap describes how the sensor pins land on a 32-bit input port: one
// contiguous run of data bits plus the pixel-clock, line-valid and
// frame-valid bits. The two bus variants wire the data bits differently
// but share the framing bits.
type pinmap struct {
	dataMask  uint32
	dataShift uint
	clk       uint32
	lv        uint32
	fv        uint32
}

func (pm pinmap) sample(st uint32) uint16 {
	return uint16((st & pm.dataMask) >> pm.dataShift)
}

func (pm pinmap) pixclk(st uint32) bool     { return st&pm.clk != 0 }
func (pm pinmap) lineValid(st uint32) bool  { return st&pm.lv != 0 }
func (pm pinmap) frameValid(st uint32) bool { return st&pm.fv != 0 }

// pinmaps maps each readout depth to its port wiring.
var pinmaps = map[Depth]pinmap{
	Depth10: {
		dataMask:  0x3ff, // D0-D9 on port bits 0-9
		dataShift: 0,
		clk:       1 << 24,
		lv:        1 << 25,
		fv:        1 << 26,
	},
	Depth8: {
		dataMask:  0xff0, // D2-D9 on port bits 4-11
		dataShift: 4,
		clk:       1 << 24,
		lv:        1 << 25,
		fv:        1 << 26,
	},
}

// bus reads the instantaneous state of the sensor port. One state read
// returns the data bits and the framing bits of the same instant, so a
// qualifying clock edge and the sample it qualifies always come from a
// single port access.
type bus interface {
	state() uint32
	pins() pinmap
}

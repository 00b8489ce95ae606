// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regs holds the two-wire register map of the pixel sensor and
// the canned register profiles used to bring it up.
package regs

// Register addresses.
const (
	ChipVersion  = 0x00
	ColStart     = 0x01
	RowStart     = 0x02
	WindowHeight = 0x03
	WindowWidth  = 0x04
	HBlank       = 0x05
	VBlank       = 0x06
	ChipControl  = 0x07
	Exposure     = 0x0B // coarse shutter width
	Reset        = 0x0C // soft reset
	ReadMode     = 0x0D
	ADCMode      = 0x1C // ADC resolution control
	AnalogGain   = 0x35
	DigitalGain  = 0x80
	AECAGC       = 0xAF // auto exposure/gain enable
)

// ChipControl and ADCMode values.
const (
	CtlMaster = 0x0188 // master mode, parallel output enabled
	CtlSlave  = 0x018A // slave mode, externally timed

	ADCLinear    = 0x0002 // 10-bit linear
	ADCCompanded = 0x0003 // 12-to-10 companded
)

// Setting is one register write of a bring-up profile.
type Setting struct {
	Reg uint8
	Val uint16
}

// Profile returns the bring-up register sequence for the requested
// timing and ADC configuration. All profiles disable the automatic
// exposure and gain loops: exposure and gains are driven explicitly
// over the command channel.
func Profile(master, companded bool) []Setting {
	switch {
	case master && !companded:
		return masterLinear
	case master && companded:
		return masterCompanded
	case !master && !companded:
		return slaveLinear
	default:
		return slaveCompanded
	}
}

var masterLinear = []Setting{
	{Reset, 0x0001},
	{ColStart, 1},
	{RowStart, 4},
	{WindowWidth, 752},
	{WindowHeight, 480},
	{HBlank, 94},
	{VBlank, 45},
	{ADCMode, ADCLinear},
	{AECAGC, 0x0000},
	{ChipControl, CtlMaster},
}

var masterCompanded = []Setting{
	{Reset, 0x0001},
	{ColStart, 1},
	{RowStart, 4},
	{WindowWidth, 752},
	{WindowHeight, 480},
	{HBlank, 94},
	{VBlank, 45},
	{ADCMode, ADCCompanded},
	{AECAGC, 0x0000},
	{ChipControl, CtlMaster},
}

var slaveLinear = []Setting{
	{Reset, 0x0001},
	{ColStart, 1},
	{RowStart, 4},
	{WindowWidth, 752},
	{WindowHeight, 480},
	{HBlank, 94},
	{VBlank, 45},
	{ADCMode, ADCLinear},
	{AECAGC, 0x0000},
	{ChipControl, CtlSlave},
}

var slaveCompanded = []Setting{
	{Reset, 0x0001},
	{ColStart, 1},
	{RowStart, 4},
	{WindowWidth, 752},
	{WindowHeight, 480},
	{HBlank, 94},
	{VBlank, 45},
	{ADCMode, ADCCompanded},
	{AECAGC, 0x0000},
	{ChipControl, CtlSlave},
}

// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sensor

import (
	"errors"

	"golang.org/x/xerrors"

	"github.com/go-pcam/pcam/link"
	"github.com/go-pcam/pcam/sensor/internal/regs"
	"github.com/go-pcam/pcam/vrec"
)

// maxCmdsPerDrain bounds the commands handled in a single frame gap so
// a flooded command channel cannot starve the capture loop.
const maxCmdsPerDrain = 16

// drainCommands reads and applies whatever commands arrived on the link
// since the previous frame. It runs between frames, never inside the
// capture critical section.
//
// A command may straddle two drain passes: the accumulator keeps the
// partial bytes until the remaining ones show up. Reads stop at the
// first empty timeout.
func (dev *Device) drainCommands() error {
	if !dev.lnk.Present() {
		if dev.params.streaming {
			dev.msg.Printf("peer lost: pausing stream")
			dev.params.streaming = false
		}
		return nil
	}

	err := dev.lnk.SetReadTimeout(dev.cfg.cmdTimeout)
	if err != nil {
		return xerrors.Errorf("sensor: could not arm command timeout: %w", err)
	}

	for done := 0; done < maxCmdsPerDrain; {
		n, err := dev.lnk.Read(dev.cmd.buf[dev.cmd.n:])
		switch {
		case err == nil:
			// ok
		case errors.Is(err, link.ErrTimeout):
			return nil
		default:
			return xerrors.Errorf("sensor: could not read command: %w", err)
		}
		dev.cmd.n += n
		if dev.cmd.n < vrec.CommandLen {
			continue
		}
		dev.cmd.n = 0
		dev.apply(vrec.ParseCommand(dev.cmd.buf[:]))
		done++
	}
	return nil
}

func (dev *Device) apply(cmd vrec.Command) {
	dev.cnt.cmds++
	switch cmd.Tag {
	case vrec.TagExposure:
		dev.params.exposure = cmd.Uint16()
		dev.ctlSet(regs.Exposure, dev.params.exposure)
	case vrec.TagAnalogGain:
		dev.params.again = cmd.Byte()
		dev.ctlSet(regs.AnalogGain, uint16(dev.params.again))
	case vrec.TagDigitalGain:
		dev.params.dgain = cmd.Byte()
		dev.ctlSet(regs.DigitalGain, uint16(dev.params.dgain))
	case vrec.TagLineCount:
		n := cmd.Uint16()
		if n > uint16(dev.cfg.height) {
			n = uint16(dev.cfg.height)
		}
		dev.params.lines = n
	case vrec.TagStreaming:
		dev.params.streaming = cmd.Byte()&1 != 0
	default:
		dev.cnt.dropped++
		dev.msg.Printf("unknown command tag 0x%02x", cmd.Tag)
	}
}

// ctlSet forwards a parameter to the sensor register. Register write
// failures are logged and counted, not fatal: the stream keeps running
// with the previous sensor setting.
func (dev *Device) ctlSet(reg uint8, v uint16) {
	err := dev.ctl.set(reg, v)
	if err != nil {
		dev.cnt.dropped++
		dev.msg.Printf("could not apply register 0x%02x: %+v", reg, err)
	}
}

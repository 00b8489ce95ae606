// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sensor

import (
	"github.com/go-daq/smbus"
	"golang.org/x/xerrors"

	"github.com/go-pcam/pcam/sensor/internal/regs"
)

// ctl writes configuration registers to the sensor over its two-wire
// control interface.
type ctl interface {
	init(settings []regs.Setting) error
	set(reg uint8, v uint16) error
	close() error
}

type smbusCtl struct {
	conn *smbus.Conn
	addr uint8
}

func newSMBusCtl(bus int, addr uint8) (*smbusCtl, error) {
	conn, err := smbus.Open(bus, addr)
	if err != nil {
		return nil, xerrors.Errorf("sensor: could not open i2c bus %d: %w", bus, err)
	}
	return &smbusCtl{conn: conn, addr: addr}, nil
}

func (sc *smbusCtl) init(settings []regs.Setting) error {
	for _, s := range settings {
		if err := sc.set(s.Reg, s.Val); err != nil {
			return err
		}
	}
	return nil
}

func (sc *smbusCtl) set(reg uint8, v uint16) error {
	err := sc.conn.WriteWord(sc.addr, reg, v)
	if err != nil {
		return xerrors.Errorf("sensor: could not write register 0x%02x: %w", reg, err)
	}
	return nil
}

func (sc *smbusCtl) close() error { return sc.conn.Close() }

var _ ctl = (*smbusCtl)(nil)

// noopCtl stands in when the control interface is disabled: capture
// runs against whatever configuration the sensor already has.
type noopCtl struct{}

func (noopCtl) init(settings []regs.Setting) error { return nil }
func (noopCtl) set(reg uint8, v uint16) error      { return nil }
func (noopCtl) close() error                       { return nil }

var _ ctl = noopCtl{}

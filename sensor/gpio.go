// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sensor

import (
	"os"

	"golang.org/x/xerrors"

	"github.com/go-pcam/pcam/internal/mmap"
)

const (
	gpioBase = 0x20200000 // GPIO controller physical base
	gpioSpan = 0x100

	gpioLev0 = 0x34 // input level, pins 0-31
)

// gpioBus samples the sensor port through the memory-mapped GPIO input
// level register. state reads are allocation free and safe to call from
// the capture critical section.
type gpioBus struct {
	mem *mmap.Handle
	pm  pinmap
}

func newGPIOBus(pm pinmap) (*gpioBus, error) {
	f, err := os.OpenFile("/dev/mem", os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, xerrors.Errorf("sensor: could not open /dev/mem: %w", err)
	}
	defer f.Close()

	mem, err := mmap.Map(f, gpioBase, gpioSpan)
	if err != nil {
		return nil, xerrors.Errorf("sensor: could not map GPIO registers: %w", err)
	}

	return &gpioBus{mem: mem, pm: pm}, nil
}

func (gb *gpioBus) state() uint32 { return gb.mem.Uint32(gpioLev0) }
func (gb *gpioBus) pins() pinmap  { return gb.pm }

func (gb *gpioBus) close() error {
	if gb.mem == nil {
		return nil
	}
	err := gb.mem.Close()
	gb.mem = nil
	return err
}

var _ bus = (*gpioBus)(nil)

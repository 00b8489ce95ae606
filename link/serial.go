// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Serial is a Link over a serial port. The DSR modem line carries the
// presence signal: the host asserts DTR while its reader runs, which
// shows up as DSR on the device side.
type Serial struct {
	port serial.Port
}

// OpenSerial opens the named serial port at the given baud rate with
// 8N1 framing, the fixed session parameters the device and host agree
// on out of band.
func OpenSerial(name string, baud int) (*Serial, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("link: could not open serial port %q: %w", name, err)
	}
	return &Serial{port: port}, nil
}

func (lnk *Serial) Read(p []byte) (int, error) {
	n, err := lnk.port.Read(p)
	if n == 0 && err == nil {
		// the serial stack reports an expired read timeout as an
		// empty successful read.
		return 0, ErrTimeout
	}
	return n, err
}

func (lnk *Serial) Write(p []byte) (int, error) {
	return lnk.port.Write(p)
}

// SetReadTimeout bounds the time a single Read may block.
func (lnk *Serial) SetReadTimeout(d time.Duration) error {
	return lnk.port.SetReadTimeout(d)
}

// Present reports whether the far end asserts its data-terminal-ready
// line.
func (lnk *Serial) Present() bool {
	bits, err := lnk.port.GetModemStatusBits()
	if err != nil {
		return false
	}
	return bits.DSR
}

// Close closes the serial port.
func (lnk *Serial) Close() error {
	return lnk.port.Close()
}

var _ Link = (*Serial)(nil)

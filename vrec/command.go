// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrec

import (
	"encoding/binary"
	"io"

	"golang.org/x/xerrors"
)

// Command tags understood by the capture device. Unknown tags are
// silently discarded by the device, never rejected: the protocol favors
// forward compatibility over strict validation.
const (
	TagExposure    = 'E' // payload: 16-bit exposure time, microseconds
	TagAnalogGain  = 'A' // payload low byte: analog gain code
	TagDigitalGain = 'D' // payload low byte: digital gain code
	TagLineCount   = 'N' // payload: 16-bit active line count
	TagStreaming   = 'P' // payload low byte, bit 0: streaming enable
)

// Command is one fixed-size runtime command record.
type Command struct {
	Tag     uint8
	Payload [2]uint8 // big-endian where the full 16 bits are meaningful
}

// Uint16 returns the payload as a big-endian 16-bit value.
func (cmd Command) Uint16() uint16 {
	return binary.BigEndian.Uint16(cmd.Payload[:])
}

// Byte returns the payload's low byte, for commands whose value fits in
// a single trailing byte.
func (cmd Command) Byte() uint8 { return cmd.Payload[1] }

// Exposure builds the command setting the exposure time in microseconds.
func Exposure(us uint16) Command { return mkCmd(TagExposure, us) }

// AnalogGain builds the command setting the analog gain code.
func AnalogGain(code uint8) Command { return mkCmd(TagAnalogGain, uint16(code)) }

// DigitalGain builds the command setting the digital gain code.
func DigitalGain(code uint8) Command { return mkCmd(TagDigitalGain, uint16(code)) }

// LineCount builds the command setting the active line count.
func LineCount(n uint16) Command { return mkCmd(TagLineCount, n) }

// Streaming builds the command enabling or disabling line streaming.
func Streaming(on bool) Command {
	var v uint16
	if on {
		v = 1
	}
	return mkCmd(TagStreaming, v)
}

func mkCmd(tag uint8, v uint16) Command {
	cmd := Command{Tag: tag}
	binary.BigEndian.PutUint16(cmd.Payload[:], v)
	return cmd
}

// WriteCommand writes cmd to w as a single 3-byte write.
func WriteCommand(w io.Writer, cmd Command) error {
	buf := [CommandLen]byte{cmd.Tag, cmd.Payload[0], cmd.Payload[1]}
	_, err := w.Write(buf[:])
	if err != nil {
		return xerrors.Errorf("vrec: could not write command 0x%x: %w", cmd.Tag, err)
	}
	return nil
}

// ReadCommand reads exactly one command record from r.
func ReadCommand(r io.Reader) (Command, error) {
	var buf [CommandLen]byte
	_, err := io.ReadFull(r, buf[:])
	if err != nil {
		return Command{}, xerrors.Errorf("vrec: could not read command: %w", err)
	}
	return ParseCommand(buf[:]), nil
}

// ParseCommand decodes one command record from p. p must hold at least
// CommandLen bytes.
func ParseCommand(p []byte) Command {
	return Command{
		Tag:     p[0],
		Payload: [2]uint8{p[1], p[2]},
	}
}

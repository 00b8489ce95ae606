// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrec

import (
	"bytes"
	"io"
	"reflect"
	"testing"
)

func TestCommandWire(t *testing.T) {
	for _, tc := range []struct {
		name string
		cmd  Command
		want []byte
	}{
		{name: "exposure", cmd: Exposure(480), want: []byte{'E', 0x01, 0xe0}},
		{name: "analog-gain", cmd: AnalogGain(16), want: []byte{'A', 0x00, 0x10}},
		{name: "digital-gain", cmd: DigitalGain(4), want: []byte{'D', 0x00, 0x04}},
		{name: "line-count", cmd: LineCount(480), want: []byte{'N', 0x01, 0xe0}},
		{name: "stream-on", cmd: Streaming(true), want: []byte{'P', 0x00, 0x01}},
		{name: "stream-off", cmd: Streaming(false), want: []byte{'P', 0x00, 0x00}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			err := WriteCommand(buf, tc.cmd)
			if err != nil {
				t.Fatalf("could not write command: %+v", err)
			}
			if got := buf.Bytes(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("invalid wire command:\ngot= %v\nwant=%v", got, tc.want)
			}

			cmd, err := ReadCommand(bytes.NewReader(tc.want))
			if err != nil {
				t.Fatalf("could not read command: %+v", err)
			}
			if !reflect.DeepEqual(cmd, tc.cmd) {
				t.Fatalf("invalid command:\ngot= %#v\nwant=%#v", cmd, tc.cmd)
			}
		})
	}
}

func TestCommandPayload(t *testing.T) {
	cmd := Exposure(0x1234)
	if got, want := cmd.Uint16(), uint16(0x1234); got != want {
		t.Fatalf("invalid payload: got=0x%04x, want=0x%04x", got, want)
	}
	if got, want := cmd.Byte(), uint8(0x34); got != want {
		t.Fatalf("invalid payload byte: got=0x%02x, want=0x%02x", got, want)
	}
}

func TestReadCommandShort(t *testing.T) {
	_, err := ReadCommand(bytes.NewReader([]byte{'E', 0x01}))
	if err == nil || err == io.EOF {
		t.Fatalf("expected a truncation error, got err=%v", err)
	}
}

func TestParseCommand(t *testing.T) {
	cmd := ParseCommand([]byte{'N', 0x01, 0xe0})
	if got, want := cmd, LineCount(480); !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid command:\ngot= %#v\nwant=%#v", got, want)
	}
}

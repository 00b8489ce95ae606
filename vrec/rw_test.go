// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vrec

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"testing"
)

func TestEncode(t *testing.T) {
	for _, tc := range []struct {
		name    string
		width   int
		shift   uint
		idx     uint16
		samples []uint16
		want    []byte
	}{
		{
			name:    "companded",
			width:   4,
			shift:   0,
			idx:     0x0102,
			samples: []uint16{0x00, 0x7f, 0x80, 0xff},
			want:    []byte{0x01, 0x02, 0x00, 0x7f, 0x80, 0xff},
		},
		{
			name:    "windowed",
			width:   4,
			shift:   2,
			idx:     0,
			samples: []uint16{0x000, 0x1ff, 0x200, 0x3ff},
			want:    []byte{0x00, 0x00, 0x00, 0x7f, 0x80, 0xff},
		},
		{
			name:    "quantization-floor",
			width:   2,
			shift:   2,
			idx:     1,
			samples: []uint16{0x003, 0x004},
			want:    []byte{0x00, 0x01, 0x00, 0x01},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			enc := NewEncoder(buf, tc.width, tc.shift)
			err := enc.Encode(tc.idx, tc.samples)
			if err != nil {
				t.Fatalf("could not encode line: %+v", err)
			}
			if got := buf.Bytes(); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("invalid record:\ngot= %v\nwant=%v", got, tc.want)
			}
		})
	}
}

func TestQuantizationIdempotent(t *testing.T) {
	// re-capturing already-quantized data must reproduce the same wire
	// bytes: the shift only ever discards the low-order bits once.
	const width = 16
	samples := make([]uint16, width)
	for i := range samples {
		samples[i] = uint16(i * 67 % 1024)
	}

	first := new(bytes.Buffer)
	enc := NewEncoder(first, width, 2)
	if err := enc.Encode(0, samples); err != nil {
		t.Fatalf("could not encode samples: %+v", err)
	}

	requant := make([]uint16, width)
	for i, px := range first.Bytes()[HeaderLen:] {
		requant[i] = uint16(px) << 2
	}

	second := new(bytes.Buffer)
	enc = NewEncoder(second, width, 2)
	if err := enc.Encode(0, requant); err != nil {
		t.Fatalf("could not encode requantized samples: %+v", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("quantization is not idempotent:\nfirst= %x\nsecond=%x",
			first.Bytes(), second.Bytes(),
		)
	}
}

func TestEncodeBadWidth(t *testing.T) {
	enc := NewEncoder(io.Discard, 4, 0)
	err := enc.Encode(0, make([]uint16, 5))
	if err == nil {
		t.Fatalf("expected an error for a mis-sized line")
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, fmt.Errorf("boom")
}

func TestEncodeWriteError(t *testing.T) {
	enc := NewEncoder(failingWriter{}, 2, 0)
	err := enc.Encode(0, []uint16{1, 2})
	if err == nil {
		t.Fatalf("expected a write error")
	}
}

func TestDecode(t *testing.T) {
	raw := []byte{
		0x00, 0x00, 0x0a, 0x0b, 0x0c,
		0x00, 0x01, 0x0d, 0x0e, 0x0f,
		0x01, 0x00, 0x10, 0x11, 0x12,
	}
	want := []Line{
		{Index: 0, Pixels: []uint8{0x0a, 0x0b, 0x0c}},
		{Index: 1, Pixels: []uint8{0x0d, 0x0e, 0x0f}},
		{Index: 256, Pixels: []uint8{0x10, 0x11, 0x12}},
	}

	dec := NewDecoder(bytes.NewReader(raw), 3)
	var got []Line
	for {
		var line Line
		err := dec.Decode(&line)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("could not decode line: %+v", err)
		}
		got = append(got, Line{
			Index:  line.Index,
			Pixels: append([]uint8(nil), line.Pixels...),
		})
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid lines:\ngot= %v\nwant=%v", got, want)
	}
}

func TestDecodeTruncated(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  []byte
	}{
		{name: "torn-header", raw: []byte{0x00}},
		{name: "torn-pixels", raw: []byte{0x00, 0x00, 0x0a}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dec := NewDecoder(bytes.NewReader(tc.raw), 3)
			var line Line
			err := dec.Decode(&line)
			if err == nil || err == io.EOF {
				t.Fatalf("expected a truncation error, got err=%v", err)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	const width = 8
	buf := new(bytes.Buffer)
	enc := NewEncoder(buf, width, 2)

	samples := make([]uint16, width)
	for i := range samples {
		samples[i] = uint16(i * 137 % 1024)
	}
	for idx := uint16(0); idx < 4; idx++ {
		err := enc.Encode(idx, samples)
		if err != nil {
			t.Fatalf("could not encode line %d: %+v", idx, err)
		}
	}

	dec := NewDecoder(buf, width)
	for idx := uint16(0); idx < 4; idx++ {
		var line Line
		err := dec.Decode(&line)
		if err != nil {
			t.Fatalf("could not decode line %d: %+v", idx, err)
		}
		if line.Index != idx {
			t.Fatalf("invalid index: got=%d, want=%d", line.Index, idx)
		}
		for i, px := range line.Pixels {
			if want := uint8(samples[i] >> 2); px != want {
				t.Fatalf("line %d: invalid pixel %d: got=%d, want=%d", idx, i, px, want)
			}
		}
	}

	var line Line
	if err := dec.Decode(&line); err != io.EOF {
		t.Fatalf("expected io.EOF at end of stream, got err=%v", err)
	}
}

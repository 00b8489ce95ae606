// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vrec describes and handles the records exchanged over the
// capture link: video line records on the device-to-host direction and
// fixed-size command records on the host-to-device direction.
//
// A line record has a fixed layout of [2-byte big-endian line index]
// followed by one byte per pixel; its total size is width+2 bytes and
// stays constant for a whole session. The line index is window-relative
// and zero-based. A command record is exactly 3 bytes: [1-byte tag]
// [2-byte big-endian payload].
package vrec // import "github.com/go-pcam/pcam/vrec"

const (
	// HeaderLen is the size of the line-record header (the big-endian
	// line index).
	HeaderLen = 2

	// CommandLen is the size of one command record.
	CommandLen = 3
)

// RecordLen returns the on-wire size of one line record carrying width
// pixels.
func RecordLen(width int) int { return HeaderLen + width }

// Line is one video line in wire form.
type Line struct {
	Index  uint16  // window-relative, zero-based line index
	Pixels []uint8 // one byte per pixel, after bit-depth reduction
}

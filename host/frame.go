// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"github.com/google/uuid"
)

// Frame is one reassembled image. Pix holds Lines rows of Width bytes
// in row-major order and is owned by the frame: it does not alias the
// reassembler's working buffers.
//
// Rows counts the lines actually received for this frame. A frame cut
// short by an index wrap carries Rows < Lines, with the missing rows
// holding the pixels of the previous frame.
type Frame struct {
	Session uuid.UUID // capture session this frame belongs to
	Seq     uint64    // 1-based frame number within the session
	Width   int
	Lines   int
	Rows    int
	Pix     []uint8
}

// Complete reports whether every line of the frame was received.
func (f *Frame) Complete() bool { return f.Rows == f.Lines }

// Row returns line y of the frame.
func (f *Frame) Row(y int) []uint8 {
	return f.Pix[y*f.Width : (y+1)*f.Width]
}

// At returns the pixel at column x of line y.
func (f *Frame) At(x, y int) uint8 {
	return f.Pix[y*f.Width+x]
}

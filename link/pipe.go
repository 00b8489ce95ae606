// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import (
	"net"
	"sync/atomic"
)

// PipeLink is one end of a synchronous in-memory link pair. It exists
// for tests and loopback wiring; its presence signal is toggled by hand
// with SetPresent.
type PipeLink struct {
	stream
	absent atomic.Bool
}

// Pipe returns a connected pair of in-memory links. Data written to one
// end is read from the other.
func Pipe() (*PipeLink, *PipeLink) {
	c1, c2 := net.Pipe()
	return &PipeLink{stream: stream{conn: c1}},
		&PipeLink{stream: stream{conn: c2}}
}

// SetPresent overrides the presence signal seen by readers of this end.
func (lnk *PipeLink) SetPresent(ok bool) { lnk.absent.Store(!ok) }

// Present reports the value last set with SetPresent, or false once the
// pipe errored out or was closed.
func (lnk *PipeLink) Present() bool {
	return !lnk.absent.Load() && lnk.stream.Present()
}

var _ Link = (*PipeLink)(nil)

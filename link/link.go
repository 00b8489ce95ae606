// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package link provides the byte-oriented duplex transports connecting
// the capture device to its host: a serial port, a TCP connection and an
// in-memory pipe for tests.
//
// A link is an ordered, lossless-within-session byte stream with no
// inherent message boundaries; record framing is the business of the
// vrec and host packages. Loss of the underlying channel ends the
// session: there is no retransmission.
package link // import "github.com/go-pcam/pcam/link"

import (
	"errors"
	"io"
	"time"
)

// ErrTimeout reports that the timeout set with SetReadTimeout expired
// with no byte received. It is not fatal: a later Read resumes the
// stream where it left off.
var ErrTimeout = errors.New("link: read timeout")

// A Link is a duplex byte stream between device and host.
//
// Read blocks at most for the duration set with SetReadTimeout. It
// returns the bytes available so far, possibly fewer than requested,
// with a nil error; a short read is not an error. If the timeout
// expires before any byte arrived, Read returns (0, ErrTimeout). A zero
// timeout means Read blocks until at least one byte arrives.
type Link interface {
	io.ReadWriteCloser

	// SetReadTimeout bounds the time a single Read may block.
	SetReadTimeout(d time.Duration) error

	// Present reports whether a consumer is attached to the far end of
	// the link. The device polls it to stop streaming when no host is
	// listening.
	Present() bool
}

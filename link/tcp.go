// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package link

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// stream adapts a net.Conn to the Link read-timeout semantics. Presence
// is pessimistic: the peer counts as attached until the connection
// errors out or is closed.
type stream struct {
	conn    net.Conn
	timeout time.Duration
	gone    atomic.Bool
}

func (lnk *stream) Read(p []byte) (int, error) {
	if lnk.timeout > 0 {
		err := lnk.conn.SetReadDeadline(time.Now().Add(lnk.timeout))
		if err != nil {
			lnk.gone.Store(true)
			return 0, fmt.Errorf("link: could not arm read deadline: %w", err)
		}
	}
	n, err := lnk.conn.Read(p)
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		if n == 0 {
			return 0, ErrTimeout
		}
		return n, nil
	}
	if err != nil {
		lnk.gone.Store(true)
	}
	return n, err
}

func (lnk *stream) Write(p []byte) (int, error) {
	n, err := lnk.conn.Write(p)
	if err != nil {
		lnk.gone.Store(true)
	}
	return n, err
}

func (lnk *stream) SetReadTimeout(d time.Duration) error {
	lnk.timeout = d
	if d == 0 {
		return lnk.conn.SetReadDeadline(time.Time{})
	}
	return nil
}

func (lnk *stream) Present() bool { return !lnk.gone.Load() }

func (lnk *stream) Close() error {
	lnk.gone.Store(true)
	return lnk.conn.Close()
}

// TCP is a Link over a TCP connection.
type TCP struct {
	stream
}

// DialTCP connects to a listening peer at addr.
func DialTCP(addr string) (*TCP, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("link: could not dial %q: %w", addr, err)
	}
	return NewTCP(conn), nil
}

// NewTCP wraps an established connection, typically one returned by a
// net.Listener on the host side.
func NewTCP(conn net.Conn) *TCP {
	return &TCP{stream{conn: conn}}
}

var _ Link = (*TCP)(nil)

// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pcam-view receives a camera stream and writes the
// reassembled frames to disk.
package main // import "github.com/go-pcam/pcam/cmd/pcam-view"

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-pcam/pcam/host"
	"github.com/go-pcam/pcam/link"
	"github.com/go-pcam/pcam/sensor"
	"github.com/go-pcam/pcam/vrec"
)

func main() {
	var (
		addr    = flag.String("addr", ":9800", "[address]:port to listen on for the camera")
		width   = flag.Int("width", sensor.DefaultWidth, "line width in pixels")
		lines   = flag.Int("lines", sensor.DefaultHeight, "lines per frame")
		odir    = flag.String("o", "frames", "output directory for PGM frames")
		timeout = flag.Duration("timeout", 500*time.Millisecond, "stall detection timeout")
	)

	log.SetPrefix("pcam-view: ")
	log.SetFlags(0)

	flag.Parse()

	err := run(*addr, *width, *lines, *odir, *timeout)
	if err != nil {
		log.Fatalf("could not run pcam-view: %+v", err)
	}
}

func run(addr string, width, lines int, odir string, timeout time.Duration) error {
	srv, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not listen on %q: %w", addr, err)
	}
	defer srv.Close()

	log.Printf("waiting for camera on %q...", srv.Addr())
	conn, err := srv.Accept()
	if err != nil {
		return fmt.Errorf("could not accept camera: %w", err)
	}
	lnk := link.NewTCP(conn)
	defer lnk.Close()
	log.Printf("camera attached from %q", conn.RemoteAddr())

	err = vrec.WriteCommand(lnk, vrec.Streaming(true))
	if err != nil {
		return fmt.Errorf("could not enable streaming: %w", err)
	}

	disp, err := host.NewPGMDir(odir)
	if err != nil {
		return fmt.Errorf("could not create display: %w", err)
	}

	ra := host.NewReassembler(lnk,
		host.WithWidth(width),
		host.WithLines(lines),
		host.WithTimeout(timeout),
	)

	// frames are handed to the display without blocking the stream
	// reader: when the display lags, frames are dropped, not queued.
	frames := make(chan *host.Frame, 1)
	grp, ctx := errgroup.WithContext(context.Background())

	grp.Go(func() error {
		defer close(frames)
		var dropped int
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			f, err := ra.Next()
			switch {
			case err == nil:
				// ok
			case errors.Is(err, host.ErrStalled):
				log.Printf("stream stalled...")
				continue
			case errors.Is(err, io.EOF):
				log.Printf("camera detached (dropped=%d, discarded=%d)", dropped, ra.Dropped())
				return nil
			default:
				return fmt.Errorf("could not reassemble frame: %w", err)
			}

			select {
			case frames <- f:
			default:
				dropped++
			}
		}
	})

	grp.Go(func() error {
		for f := range frames {
			err := disp.Show(f)
			if err != nil {
				return fmt.Errorf("could not display frame %d: %w", f.Seq, err)
			}
			if !f.Complete() {
				log.Printf("frame %d: partial (%d/%d lines)", f.Seq, f.Rows, f.Lines)
			}
		}
		return nil
	})

	return grp.Wait()
}

// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sensor

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"golang.org/x/xerrors"

	"github.com/go-pcam/pcam/link"
	"github.com/go-pcam/pcam/sensor/internal/regs"
	"github.com/go-pcam/pcam/vrec"
)

// Device drives one pixel sensor: it brings the sensor up over its
// control interface, captures frames from the parallel pixel bus and
// streams the selected window of lines onto the link as records.
type Device struct {
	msg *log.Logger
	bus bus
	lnk link.Link
	enc *vrec.Encoder
	ctl ctl

	cfg    config
	params params

	rows    [][]uint16 // one buffer per window line
	valid   []bool     // window rows captured this frame
	scratch []uint16   // lines above the window land here

	cmd struct {
		buf [vrec.CommandLen]uint8
		n   int
	}

	cnt struct {
		frames   uint64
		lines    uint64
		missed   uint64
		sent     uint64
		cmds     uint64
		dropped  uint64
		timeouts struct {
			frame uint64
		}
	}

	err  error
	done chan int // signal to stop capture
}

// NewDevice opens the sensor pixel bus through the GPIO port and, when
// enabled, the two-wire control interface. lnk carries the outgoing
// line records along with the incoming commands.
func NewDevice(lnk link.Link, opts ...Option) (*Device, error) {
	dev := newDevice(lnk, opts...)

	b, err := newGPIOBus(pinmaps[dev.cfg.depth])
	if err != nil {
		return nil, xerrors.Errorf("sensor: could not open pixel bus: %w", err)
	}
	dev.bus = b

	if dev.cfg.i2c.enabled {
		c, err := newSMBusCtl(dev.cfg.i2c.bus, dev.cfg.i2c.addr)
		if err != nil {
			_ = b.close()
			return nil, err
		}
		dev.ctl = c
	}

	return dev, nil
}

func newDevice(lnk link.Link, opts ...Option) *Device {
	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	dev := &Device{
		msg:    log.New(os.Stdout, "sensor: ", 0),
		lnk:    lnk,
		enc:    vrec.NewEncoder(lnk, cfg.width, cfg.depth.shift()),
		ctl:    noopCtl{},
		cfg:    cfg,
		params: newParams(cfg),
	}

	dev.rows = make([][]uint16, cfg.height)
	for i := range dev.rows {
		dev.rows[i] = make([]uint16, cfg.width)
	}
	dev.valid = make([]bool, cfg.height)
	dev.scratch = make([]uint16, cfg.width)

	return dev
}

// Initialize programs the bring-up register profile and the current
// acquisition parameters into the sensor.
func (dev *Device) Initialize() error {
	prof := regs.Profile(dev.cfg.mode == ModeMaster, dev.cfg.depth == Depth8)
	err := dev.ctl.init(prof)
	if err != nil {
		return xerrors.Errorf("sensor: could not program sensor profile: %w", err)
	}

	for _, s := range []regs.Setting{
		{Reg: regs.Exposure, Val: dev.params.exposure},
		{Reg: regs.AnalogGain, Val: uint16(dev.params.again)},
		{Reg: regs.DigitalGain, Val: uint16(dev.params.dgain)},
	} {
		if err := dev.ctl.set(s.Reg, s.Val); err != nil {
			return err
		}
	}
	return nil
}

// Start launches the capture loop.
func (dev *Device) Start() error {
	dev.err = nil
	dev.done = make(chan int)

	go dev.loop()
	return nil
}

// loop alternates frame capture with command handling: commands are
// drained in the vertical blanking gap between frames, so register
// writes and parameter changes never race a line in flight.
//
// Link trouble pauses the stream instead of ending the loop: capture
// keeps running and transmission resumes when the peer asks for it.
func (dev *Device) loop() {
	for {
		select {
		case <-dev.done:
			dev.done <- 1
			return
		default:
		}

		err := dev.drainCommands()
		if err != nil {
			dev.err = err
			dev.msg.Printf("%+v", err)
			dev.params.streaming = false
		}

		err = dev.captureFrame()
		switch {
		case err == nil:
			// ok
		case errors.Is(err, errFrameStart):
			dev.cnt.timeouts.frame++
		default:
			dev.err = err
			dev.msg.Printf("%+v", err)
			dev.params.streaming = false
		}
	}
}

// Stop halts the capture loop and reports any error it ran into.
func (dev *Device) Stop() error {
	const timeout = 10 * time.Second
	tck := time.NewTimer(timeout)
	defer tck.Stop()

	select {
	case dev.done <- 1:
		<-dev.done
	case <-tck.C:
		return fmt.Errorf("sensor: could not stop capture (timeout=%v)", timeout)
	}

	if dev.err != nil {
		return fmt.Errorf("sensor: error during capture: %w", dev.err)
	}
	return nil
}

// Close releases the pixel bus and the control interface.
func (dev *Device) Close() error {
	if dev.bus == nil {
		return nil
	}

	errCtl := dev.ctl.close()
	var errBus error
	if b, ok := dev.bus.(interface{ close() error }); ok {
		errBus = b.close()
	}
	dev.bus = nil

	if errCtl != nil {
		return fmt.Errorf("sensor: could not close sensor control: %w", errCtl)
	}
	if errBus != nil {
		return fmt.Errorf("sensor: could not close pixel bus: %w", errBus)
	}
	return nil
}

// DumpCounters writes the acquisition counters to w.
func (dev *Device) DumpCounters(w io.Writer) error {
	var (
		buf    = bufio.NewWriter(w)
		err    error
		printf = func(format string, args ...interface{}) {
			_, e := fmt.Fprintf(buf, format, args...)
			if err == nil {
				err = e
			}
		}
	)

	printf("<counters>\n")
	printf("#frames;lines;missed;sent;cmds;dropped;to_frame\n")
	printf("%d;%d;%d;%d;",
		dev.cnt.frames,
		dev.cnt.lines,
		dev.cnt.missed,
		dev.cnt.sent,
	)
	printf("%d;%d;%d\n",
		dev.cnt.cmds, dev.cnt.dropped, dev.cnt.timeouts.frame,
	)

	if err != nil {
		return fmt.Errorf("sensor: could not dump counters: %w", err)
	}

	err = buf.Flush()
	if err != nil {
		return fmt.Errorf("sensor: could not flush counters: %w", err)
	}
	return nil
}

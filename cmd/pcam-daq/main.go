// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pcam-daq drives the camera acquisition in stand-alone mode.
package main // import "github.com/go-pcam/pcam/cmd/pcam-daq"

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"log"

	"github.com/go-pcam/pcam/link"
	"github.com/go-pcam/pcam/sensor"
)

func main() {
	var (
		serDev  = flag.String("serial", "", "serial device to stream over (exclusive with -addr)")
		baud    = flag.Int("baud", 921600, "serial baud rate")
		addr    = flag.String("addr", "", "host [address]:port to dial (exclusive with -serial)")
		width   = flag.Int("width", sensor.DefaultWidth, "line width in pixels")
		height  = flag.Int("height", sensor.DefaultHeight, "frame height in lines")
		depth   = flag.Int("depth", 10, "sample depth (10: windowed, 8: companded)")
		mode    = flag.String("mode", "master", "sensor timing mode (master|slave)")
		half    = flag.Bool("half-rate", false, "sample every other pixel clock")
		i2cBus  = flag.Int("i2c-bus", -1, "i2c bus number of the sensor control interface")
		i2cAddr = flag.Uint("i2c-addr", 0x48, "i2c address of the sensor")
	)

	log.SetPrefix("pcam-daq: ")
	log.SetFlags(0)

	flag.Parse()

	err := run(*serDev, *baud, *addr, *width, *height, *depth, *mode, *half, *i2cBus, uint8(*i2cAddr))
	if err != nil {
		log.Fatalf("could not run pcam-daq: %+v", err)
	}
}

func run(serDev string, baud int, addr string, width, height, depth int, mode string, half bool, i2cBus int, i2cAddr uint8) error {
	var (
		lnk link.Link
		err error
	)
	switch {
	case serDev != "" && addr != "":
		return fmt.Errorf("-serial and -addr are exclusive")
	case serDev != "":
		lnk, err = link.OpenSerial(serDev, baud)
		if err != nil {
			return fmt.Errorf("could not open serial link: %w", err)
		}
	case addr != "":
		lnk, err = link.DialTCP(addr)
		if err != nil {
			return fmt.Errorf("could not dial host: %w", err)
		}
	default:
		return fmt.Errorf("missing -serial or -addr")
	}
	defer lnk.Close()

	opts := []sensor.Option{
		sensor.WithWidth(width),
		sensor.WithHeight(height),
	}
	switch depth {
	case 10:
		opts = append(opts, sensor.WithDepth(sensor.Depth10))
	case 8:
		opts = append(opts, sensor.WithDepth(sensor.Depth8))
	default:
		return fmt.Errorf("invalid sample depth %d", depth)
	}
	switch mode {
	case "master":
		opts = append(opts, sensor.WithMode(sensor.ModeMaster))
	case "slave":
		opts = append(opts, sensor.WithMode(sensor.ModeSlave))
	default:
		return fmt.Errorf("invalid timing mode %q", mode)
	}
	if half {
		opts = append(opts, sensor.WithHalfRate(true))
	}
	if i2cBus >= 0 {
		opts = append(opts, sensor.WithI2C(i2cBus, i2cAddr))
	}

	dev, err := sensor.NewDevice(lnk, opts...)
	if err != nil {
		return fmt.Errorf("could not open sensor: %w", err)
	}
	defer dev.Close()

	err = dev.Initialize()
	if err != nil {
		return fmt.Errorf("could not initialize sensor: %w", err)
	}

	err = dev.Start()
	if err != nil {
		return fmt.Errorf("could not start acquisition: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	err = dev.Stop()
	if err != nil {
		return fmt.Errorf("could not stop acquisition: %w", err)
	}

	err = dev.DumpCounters(os.Stdout)
	if err != nil {
		return fmt.Errorf("could not dump counters: %w", err)
	}
	return nil
}

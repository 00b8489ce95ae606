// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pcam-srv exposes a camera node to a TDAQ run-control network.
package main // import "github.com/go-pcam/pcam/cmd/pcam-srv"

import (
	"context"
	"log"
	"os"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"

	"github.com/go-pcam/pcam/link"
	"github.com/go-pcam/pcam/sensor"
)

func main() {
	cmd := flags.New()

	if len(cmd.Args) < 1 {
		log.Fatalf("missing host address to dial")
	}

	cam := camera{
		addr: cmd.Args[0],
	}

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", cam.OnConfig)
	srv.CmdHandle("/init", cam.OnInit)
	srv.CmdHandle("/reset", cam.OnReset)
	srv.CmdHandle("/start", cam.OnStart)
	srv.CmdHandle("/stop", cam.OnStop)
	srv.CmdHandle("/quit", cam.OnQuit)

	err := srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

type camera struct {
	addr string

	lnk link.Link
	dev *sensor.Device
}

func (cam *camera) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	return nil
}

func (cam *camera) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	return cam.setup()
}

func (cam *camera) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	err := cam.teardown()
	if err != nil {
		return err
	}
	return cam.setup()
}

func (cam *camera) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	return cam.dev.Start()
}

func (cam *camera) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /stop command...")
	err := cam.dev.Stop()
	if err != nil {
		return err
	}
	return cam.dev.DumpCounters(os.Stdout)
}

func (cam *camera) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	return cam.teardown()
}

func (cam *camera) setup() error {
	lnk, err := link.DialTCP(cam.addr)
	if err != nil {
		return err
	}

	dev, err := sensor.NewDevice(lnk)
	if err != nil {
		_ = lnk.Close()
		return err
	}

	err = dev.Initialize()
	if err != nil {
		_ = dev.Close()
		_ = lnk.Close()
		return err
	}

	cam.lnk = lnk
	cam.dev = dev
	return nil
}

func (cam *camera) teardown() error {
	if cam.dev == nil {
		return nil
	}
	err := cam.dev.Close()
	cam.dev = nil
	if cerr := cam.lnk.Close(); err == nil {
		err = cerr
	}
	cam.lnk = nil
	return err
}

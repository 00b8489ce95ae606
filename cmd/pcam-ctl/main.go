// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pcam-ctl sends runtime commands to a camera over its control
// channel.
package main // import "github.com/go-pcam/pcam/cmd/pcam-ctl"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/go-pcam/pcam/link"
	"github.com/go-pcam/pcam/vrec"
)

func main() {
	var (
		serDev = flag.String("serial", "", "serial device of the camera")
		baud   = flag.Int("baud", 921600, "serial baud rate")
		addr   = flag.String("addr", "", "camera [address]:port to dial")
	)

	log.SetPrefix("pcam-ctl: ")
	log.SetFlags(0)

	flag.Parse()

	err := run(*serDev, *baud, *addr)
	if err != nil {
		log.Fatalf("could not run pcam-ctl: %+v", err)
	}
}

func run(serDev string, baud int, addr string) error {
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
			return fmt.Errorf("could not dial camera: %w", err)
		}
	default:
		return fmt.Errorf("missing -serial or -addr")
	}
	defer lnk.Close()

	term := liner.NewLiner()
	defer term.Close()
	term.SetCtrlCAborts(true)

	for {
		o, err := term.Prompt("pcam> ")
		if err != nil {
			if err == io.EOF || err == liner.ErrPromptAborted {
				return nil
			}
			return fmt.Errorf("could not read command: %w", err)
		}
		if strings.TrimSpace(o) == "" {
			continue
		}
		term.AppendHistory(o)

		quit, err := dispatch(lnk, o)
		if err != nil {
			log.Printf("error: %+v", err)
			continue
		}
		if quit {
			return nil
		}
	}
}

func dispatch(lnk link.Link, o string) (bool, error) {
	toks := strings.Fields(o)
	name, args := toks[0], toks[1:]

	switch name {
	case "quit", "exit":
		return true, nil

	case "help":
		fmt.Print(`commands:
  exposure <us>    set the exposure time, in microseconds
  again <code>     set the analog gain code
  dgain <code>     set the digital gain code
  lines <n>        set the active line count
  stream on|off    enable or disable line streaming
  quit             exit
`)
		return false, nil

	case "exposure":
		v, err := arg16(name, args)
		if err != nil {
			return false, err
		}
		return false, vrec.WriteCommand(lnk, vrec.Exposure(v))

	case "again":
		v, err := arg8(name, args)
		if err != nil {
			return false, err
		}
		return false, vrec.WriteCommand(lnk, vrec.AnalogGain(v))

	case "dgain":
		v, err := arg8(name, args)
		if err != nil {
			return false, err
		}
		return false, vrec.WriteCommand(lnk, vrec.DigitalGain(v))

	case "lines":
		v, err := arg16(name, args)
		if err != nil {
			return false, err
		}
		return false, vrec.WriteCommand(lnk, vrec.LineCount(v))

	case "stream":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: stream on|off")
		}
		switch args[0] {
		case "on":
			return false, vrec.WriteCommand(lnk, vrec.Streaming(true))
		case "off":
			return false, vrec.WriteCommand(lnk, vrec.Streaming(false))
		default:
			return false, fmt.Errorf("usage: stream on|off")
		}

	default:
		return false, fmt.Errorf("unknown command %q (try \"help\")", name)
	}
}

func arg16(name string, args []string) (uint16, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s <value>", name)
	}
	v, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, args[0], err)
	}
	return uint16(v), nil
}

func arg8(name string, args []string) (uint8, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s <value>", name)
	}
	v, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, args[0], err)
	}
	return uint8(v), nil
}

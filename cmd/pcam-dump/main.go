// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// pcam-dump decodes and displays raw line-record capture files.
//
// Usage: pcam-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Example:
//
//	$> pcam-dump -width 8 ./capture.raw
//	=== capture.raw ===
//	line    0: 00 12 24 36 48 5a 6c 7e
//	line    1: 01 13 25 37 49 5b 6d 7f
//	[...]
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-pcam/pcam/sensor"
	"github.com/go-pcam/pcam/vrec"
)

func main() {
	log.SetPrefix("pcam-dump: ")
	log.SetFlags(0)

	var (
		width = flag.Int("width", sensor.DefaultWidth, "line width in pixels")
		pix   = flag.Int("pix", 16, "pixels to display per line (0: all)")
	)

	flag.Usage = func() {
		fmt.Printf(`pcam-dump decodes and displays raw line-record capture files.

Usage: pcam-dump [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

Example:

 $> pcam-dump -width 8 ./capture.raw
 === capture.raw ===
 line    0: 00 12 24 36 48 5a 6c 7e
 line    1: 01 13 25 37 49 5b 6d 7f
 [...]

`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing path to input capture file")
	}

	for _, fname := range flag.Args() {
		err := process(os.Stdout, fname, *width, *pix)
		if err != nil {
			log.Fatalf("could not dump file %q: %+v", fname, err)
		}
	}
}

func process(w io.Writer, fname string, width, pix int) error {
	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	f, err := os.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer f.Close()

	fmt.Fprintf(wbuf, "=== %s ===\n", fname)

	dec := vrec.NewDecoder(f, width)
	for {
		var line vrec.Line
		err := dec.Decode(&line)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("could not decode line record: %w", err)
		}

		px := line.Pixels
		trunc := ""
		if pix > 0 && len(px) > pix {
			px = px[:pix]
			trunc = " ..."
		}
		fmt.Fprintf(wbuf, "line % 4d: % x%s\n", line.Index, px, trunc)
	}

	return nil
}

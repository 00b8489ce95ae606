// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
)

// Display consumes reassembled frames.
type Display interface {
	Show(f *Frame) error
}

// PGMDir writes every frame it is shown as a binary PGM file under a
// directory, named after the frame sequence number.
type PGMDir struct {
	dir string
}

func NewPGMDir(dir string) (*PGMDir, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, xerrors.Errorf("host: could not create output directory: %w", err)
	}
	return &PGMDir{dir: dir}, nil
}

func (d *PGMDir) Show(f *Frame) error {
	fname := filepath.Join(d.dir, fmt.Sprintf("frame-%06d.pgm", f.Seq))
	o, err := os.Create(fname)
	if err != nil {
		return xerrors.Errorf("host: could not create %q: %w", fname, err)
	}
	defer o.Close()

	_, err = fmt.Fprintf(o, "P5\n%d %d\n255\n", f.Width, f.Lines)
	if err != nil {
		return xerrors.Errorf("host: could not write %q: %w", fname, err)
	}
	_, err = o.Write(f.Pix)
	if err != nil {
		return xerrors.Errorf("host: could not write %q: %w", fname, err)
	}

	err = o.Close()
	if err != nil {
		return xerrors.Errorf("host: could not close %q: %w", fname, err)
	}
	return nil
}

var _ Display = (*PGMDir)(nil)

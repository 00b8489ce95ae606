// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmap wraps a memory-mapped register block. The Uint32
// accessors read and write whole port registers in place, with no
// allocation, so they are safe to call from the capture critical
// section.
package mmap // import "github.com/go-pcam/pcam/internal/mmap"

import (
	"encoding/binary"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// Handle gives access to a memory-mapped register block.
type Handle struct {
	data []byte
}

// HandleFrom wraps an already-mapped byte slice.
func HandleFrom(data []byte) *Handle {
	h := &Handle{data: data}
	runtime.SetFinalizer(h, (*Handle).Close)
	return h
}

// Map maps span bytes of the file at offset base, read-write and
// shared, the way SoC peripheral windows are exposed through /dev/mem.
func Map(f *os.File, base int64, span int) (*Handle, error) {
	data, err := unix.Mmap(
		int(f.Fd()),
		base, span,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		return nil, fmt.Errorf("mmap: could not map 0x%x+0x%x: %w", base, span, err)
	}
	if len(data) != span {
		return nil, fmt.Errorf("mmap: invalid mapped span: %d", len(data))
	}
	return HandleFrom(data), nil
}

// Close unmaps the block.
func (h *Handle) Close() error {
	if h == nil {
		return os.ErrInvalid
	}
	if h.data == nil {
		return nil
	}
	data := h.data
	h.data = nil
	runtime.SetFinalizer(h, nil)
	return unix.Munmap(data)
}

// Len returns the size of the mapped block.
func (h *Handle) Len() int { return len(h.data) }

// Uint32 returns the little-endian 32-bit register at off.
func (h *Handle) Uint32(off int64) uint32 {
	return binary.LittleEndian.Uint32(h.data[off : off+4])
}

// SetUint32 stores v into the little-endian 32-bit register at off.
func (h *Handle) SetUint32(off int64, v uint32) {
	binary.LittleEndian.PutUint32(h.data[off:off+4], v)
}

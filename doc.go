// Copyright 2024 The go-pcam Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pcam captures raster video lines from a parallel-output image
// sensor and streams them, as fixed-layout binary records, to a host that
// reassembles full frames.
//
// The device side lives in the sensor package, the wire format in vrec,
// the byte-stream transports in link and the host-side reassembly in host.
// Binaries are provided under cmd: pcam-daq (standalone capture device),
// pcam-srv (run-control server), pcam-view (host viewer), pcam-ctl
// (interactive control console) and pcam-dump (raw stream inspection).
package pcam // import "github.com/go-pcam/pcam"

import (
	"runtime/debug"
)

// Version returns the module version recorded in the build information.
// The returned value is only meaningful in binaries built with module
// support.
func Version() string {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	const root = "github.com/go-pcam/pcam"
	if b.Main.Path == root {
		return b.Main.Version
	}
	for _, m := range b.Deps {
		if m.Path != root {
			continue
		}
		if m.Replace != nil && m.Replace.Version != "" {
			return m.Replace.Version
		}
		return m.Version
	}
	return ""
}

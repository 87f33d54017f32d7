// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides destination buffers for mosaic.
//
// A mosaic Map paints into anything with a pixel format, a row stride and
// bounded WriteAt access. PixmapTarget is the CPU implementation: a tightly
// packed 8-bit buffer in either RGBA or BGRA byte order.
//
// # Usage
//
//	m := mosaic.NewMap(800, 600)
//	defer m.Close()
//
//	target := render.NewPixmapTarget(800, 600)
//	m.Global(0, []mosaic.PaintOp{mosaic.Clear(color.RGBA{A: 255})})
//	if err := m.Render(target); err != nil {
//	    log.Fatal(err)
//	}
//	png.Encode(f, target.Image())
//
// # Thread Safety
//
// PixmapTarget.WriteAt may be called concurrently for disjoint byte ranges,
// which is how the Map's painters use it. Other methods must not race with
// writers.
package render

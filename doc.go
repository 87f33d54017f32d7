// Package mosaic is a tile-based incremental scene compositor.
//
// # Overview
//
// A scene is a Map of layers keyed by uint32 id. Each Layer is a flattened
// outline (a raster.Raster) plus a list of paint operations. Layers are
// composited in ascending id order.
//
// The canvas is cut into TileSize x TileSize tiles. Every tile keeps a
// display list: for each layer covering it, a LayerRef entry followed by
// SegmentSpan entries naming the ranges of that layer's segments the tile
// needs. Painters read nothing else, so a tile's pixels depend only on its
// own display list.
//
// # Frames
//
//	m := mosaic.NewMap(800, 600)
//	defer m.Close()
//
//	m.Global(0, []mosaic.PaintOp{mosaic.Clear(color.RGBA{A: 255})})
//	m.Print(1, mosaic.Layer{
//	    Raster: raster.Rect(image.Rect(10, 10, 100, 100)),
//	    Ops:    []mosaic.PaintOp{mosaic.Fill(color.RGBA{R: 255, A: 255})},
//	})
//
//	target := render.NewPixmapTarget(800, 600)
//	if err := m.Render(target); err != nil {
//	    return err
//	}
//
// Print and Remove mark the tiles they affect right away. Render then
// rebuilds only those tiles' display lists. Layers that did not change but
// cover a rebuilt tile are re-emitted into that tile alone, so a small edit
// costs work proportional to the tiles it touches.
//
// Printing a layer equal to the stored one, or one without operations, is
// free: no tile is marked.
//
// # Painting
//
// After the display lists are rebuilt, every tile is handed to the Map's
// Painter on a pool of worker goroutines, in Hilbert-curve order. Painters
// receive a TileView, a read-only snapshot of the tile and the layers it
// references, and write their tile's rows into the ColorBuffer.
//
// The default CoveragePainter rasterizes with golang.org/x/image/vector and
// supports RGBA8Unorm and BGRA8Unorm buffers. See package render for a CPU
// buffer.
//
// # Logging
//
// mosaic logs through log/slog and is silent by default. Use SetLogger or
// the WithLogger option to see per-render statistics.
package mosaic

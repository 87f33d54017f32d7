package mosaic

import "log/slog"

// Option configures a Map during creation.
//
// Example:
//
//	// Default coverage painter on GOMAXPROCS workers
//	m := mosaic.NewMap(800, 600)
//
//	// Custom painter, two workers
//	m := mosaic.NewMap(800, 600, mosaic.WithPainter(p), mosaic.WithWorkers(2))
type Option func(*mapOptions)

// mapOptions holds optional configuration for Map creation.
type mapOptions struct {
	painter Painter
	workers int
	logger  *slog.Logger
}

// defaultOptions returns the default map options.
func defaultOptions() mapOptions {
	return mapOptions{
		painter: CoveragePainter{},
		workers: 0, // GOMAXPROCS
		logger:  nil, // package logger
	}
}

// WithPainter sets the painter invoked for every tile on Render.
// A nil painter keeps the default CoveragePainter.
func WithPainter(p Painter) Option {
	return func(o *mapOptions) {
		if p != nil {
			o.painter = p
		}
	}
}

// WithWorkers sets the number of goroutines painting tiles.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *mapOptions) {
		o.workers = n
	}
}

// WithLogger gives the Map its own logger instead of the package-wide one
// set by SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *mapOptions) {
		o.logger = l
	}
}

package texatlas

import (
	"image/png"
	"log/slog"
	"runtime"
)

// Option configures Load, Save and the other codec entry points.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	codec       ImageCodec
	concurrency int
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:      slog.New(slog.DiscardHandler),
		codec:       PNGCodec{CompressionLevel: png.DefaultCompression},
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used for progress and warnings. By default
// nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithImageCodec replaces the PNG codec used for page images.
func WithImageCodec(c ImageCodec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithConcurrency sets how many pages are decoded or encoded at once. The
// default of 1 processes pages strictly one after the other in page order;
// n < 1 uses GOMAXPROCS workers. Results are always assembled in page order.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		o.concurrency = n
	}
}

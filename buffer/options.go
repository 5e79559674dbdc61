package buffer

import "log/slog"

type Option func(*config)

type config struct {
	logger     *slog.Logger
	sweepLimit int
	pageTable  PageIndex
}

// WithLogger sets the logger used for eviction and flush tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithSweepLimit bounds the number of frames one clock sweep inspects
// before giving up with ErrBufferExceeded. The default of two full turns is
// enough for a single caller; with pins released concurrently by others it
// is only a heuristic.
func WithSweepLimit(inspections int) Option {
	return func(c *config) {
		c.sweepLimit = inspections
	}
}

// WithPageIndex replaces the default hash table.
func WithPageIndex(index PageIndex) Option {
	return func(c *config) {
		c.pageTable = index
	}
}

func newConfig(size int, opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}

	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.sweepLimit <= 0 {
		c.sweepLimit = 2 * size
	}
	if c.pageTable == nil {
		c.pageTable = newHashTable(hashTableSize(size))
	}

	return c
}

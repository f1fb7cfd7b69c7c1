package chunkenc

import (
	"fmt"

	"github.com/chunkenc/transpose/errs"
	"github.com/chunkenc/transpose/format"
	"github.com/chunkenc/transpose/fsm"
	"github.com/chunkenc/transpose/internal/options"
)

// config holds an Encoder's tunables, set through functional options.
type config struct {
	compressionType  format.CompressionType
	bucketSize       int
	maxTransition    uint32
	minCountForState uint32
	maxNumRecords    uint64
}

func newConfig() *config {
	return &config{
		compressionType:  format.CompressionZstd,
		bucketSize:       64 * 1024,
		maxTransition:    fsm.MaxTransition,
		minCountForState: fsm.MinCountForState,
		maxNumRecords:    1<<32 - 1,
	}
}

func (c *config) setCompressionType(t format.CompressionType) error {
	if !t.Valid() {
		return fmt.Errorf("chunkenc: %w: %v", errs.ErrInvalidCompressionType, t)
	}
	c.compressionType = t

	return nil
}

func (c *config) setBucketSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("chunkenc: bucket size must be positive, got %d", n)
	}
	c.bucketSize = n

	return nil
}

func (c *config) setMaxTransition(n uint32) error {
	if n == 0 {
		return fmt.Errorf("chunkenc: max transition must be positive")
	}
	c.maxTransition = n

	return nil
}

func (c *config) setMinCountForState(n uint32) {
	c.minCountForState = n
}

func (c *config) setMaxNumRecords(n uint64) {
	c.maxNumRecords = n
}

// Option configures an Encoder. See WithCompressionType, WithBucketSize,
// WithMaxTransition, WithMinCountForState, WithMaxNumRecords.
type Option = options.Option[*config]

// WithCompressionType selects the compression backend applied to
// buckets, the header, and the transition block. format.CompressionNone
// also disables the bucket-size limit: everything is emitted as one
// bucket per buffer-type run.
func WithCompressionType(t format.CompressionType) Option {
	return options.New(func(c *config) error {
		return c.setCompressionType(t)
	})
}

// WithBucketSize sets the target uncompressed byte count per
// compression bucket.
func WithBucketSize(n int) Option {
	return options.New(func(c *config) error {
		return c.setBucketSize(n)
	})
}

// WithMaxTransition overrides the default 63-offset cap on a single
// transition byte. Tests lower this to exercise deeper state trees with
// small inputs.
func WithMaxTransition(n uint32) Option {
	return options.New(func(c *config) error {
		return c.setMaxTransition(n)
	})
}

// WithMinCountForState overrides the default threshold (10) at or above which
// an edge earns a private-list state.
func WithMinCountForState(n uint32) Option {
	return options.NoError(func(c *config) {
		c.setMinCountForState(n)
	})
}

// WithMaxNumRecords overrides the default record-count limit
// (2^32 - 1) above which AddRecord/AddRecords fails with
// errs.ErrResourceExhausted.
func WithMaxNumRecords(n uint64) Option {
	return options.NoError(func(c *config) {
		c.setMaxNumRecords(n)
	})
}

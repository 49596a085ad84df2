package extract

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// CollectorOptions configures collection behavior.
type CollectorOptions struct {
	// ModeFallback enables the single retry with the opposite detection
	// mode when the requested mode finds no tables.
	ModeFallback bool
	// Timeout bounds one primitive invocation wall-clock time. Zero
	// disables the deadline.
	Timeout time.Duration
}

// Collection is the union of everything collected for one document.
type Collection struct {
	Tables       []TableMatrix
	Text         string
	PageCount    int
	Mode         Mode
	FallbackUsed bool
}

// Collector invokes the extraction primitive and owns the raw tables
// until they are handed to normalization. It performs no file mutation.
type Collector struct {
	primitive Primitive
	opts      CollectorOptions
	log       *zap.Logger
}

// NewCollector creates a collector over the given primitive.
func NewCollector(primitive Primitive, opts CollectorOptions, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{
		primitive: primitive,
		opts:      opts,
		log:       log,
	}
}

// Collect runs the primitive for the requested configuration. When the
// requested mode yields zero tables and fallback is enabled, it retries
// once with the opposite mode; both coming back empty is reported as
// ReasonNoPagesMatched. All other primitive errors are translated into
// the ExtractionFailure taxonomy, never surfaced raw.
func (c *Collector) Collect(ctx context.Context, path string, pages PageSelector, mode Mode) (*Collection, error) {
	if !mode.Valid() {
		mode = ModeStream
	}
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	result, err := c.primitive.Extract(ctx, path, pages, mode)
	if err != nil {
		return nil, c.classify(err)
	}

	fallbackUsed := false
	if len(result.Tables) == 0 && c.opts.ModeFallback {
		c.log.Debug("no tables under requested mode, retrying with opposite",
			zap.String("mode", string(mode)),
			zap.String("retry_mode", string(mode.Opposite())))

		retry, retryErr := c.primitive.Extract(ctx, path, pages, mode.Opposite())
		if retryErr != nil {
			return nil, c.classify(retryErr)
		}
		if len(retry.Tables) > 0 {
			result = retry
			mode = mode.Opposite()
			fallbackUsed = true
		}
	}

	if len(result.Tables) == 0 {
		return nil, NewFailure(ReasonNoPagesMatched, nil)
	}

	return &Collection{
		Tables:       result.Tables,
		Text:         result.Text,
		PageCount:    result.PageCount,
		Mode:         mode,
		FallbackUsed: fallbackUsed,
	}, nil
}

// classify maps a primitive error onto the ExtractionFailure taxonomy.
// Timeouts and cancellation count as primitive errors, matching the
// policy of reporting rather than hanging.
func (c *Collector) classify(err error) error {
	var ef *ExtractionFailure
	if errors.As(err, &ef) {
		return ef
	}
	return NewFailure(ReasonPrimitiveError, err)
}

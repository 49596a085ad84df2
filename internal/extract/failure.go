package extract

import (
	"errors"
	"fmt"
)

// FailureReason categorizes fatal extraction failures.
type FailureReason string

const (
	ReasonUnreadableFile FailureReason = "UNREADABLE_FILE"
	ReasonNoPagesMatched FailureReason = "NO_PAGES_MATCHED"
	ReasonPrimitiveError FailureReason = "PRIMITIVE_ERROR"
)

// ExtractionFailure is the only error type surfaced by the collector.
// Low-level errors from the extraction primitive are translated into one
// of the three reasons; field-level absence is never reported this way.
type ExtractionFailure struct {
	Reason FailureReason
	Err    error
}

// NewFailure wraps err under the given reason. err may be nil.
func NewFailure(reason FailureReason, err error) *ExtractionFailure {
	return &ExtractionFailure{Reason: reason, Err: err}
}

func (e *ExtractionFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed (%s)", e.Reason)
}

func (e *ExtractionFailure) Unwrap() error {
	return e.Err
}

// FailureReasonOf returns the failure reason carried by err, if any.
func FailureReasonOf(err error) (FailureReason, bool) {
	var ef *ExtractionFailure
	if errors.As(err, &ef) {
		return ef.Reason, true
	}
	return "", false
}

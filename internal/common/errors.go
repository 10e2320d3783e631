package common

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the pipeline. Callers branch on these with
// errors.Is; the structured types below carry the per-case detail.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNoDockingData = errors.New("no docking data")
	ErrDatabase      = errors.New("database error")
)

// DateParseError reports an unparseable or out-of-range date string. Local
// to one field: the field is left unset, extraction continues.
type DateParseError struct {
	Raw    string
	Reason string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("unparseable date %q: %s", e.Raw, e.Reason)
}

// IdentityHardMismatchError blocks certificate creation and file upload.
type IdentityHardMismatchError struct {
	ExtractedIMO string
	ShipIMO      string
	ShipName     string
}

func (e *IdentityHardMismatchError) Error() string {
	return fmt.Sprintf("IMO on document (%s) does not match ship %s (IMO %s); upload rejected",
		e.ExtractedIMO, e.ShipName, e.ShipIMO)
}

// DuplicateConflictError suspends automatic creation; the caller decides
// keep/replace/both.
type DuplicateConflictError struct {
	CertNo string
	Count  int
}

func (e *DuplicateConflictError) Error() string {
	return fmt.Sprintf("%d existing certificate(s) conflict with cert_no %q; pending duplicate resolution", e.Count, e.CertNo)
}

// ExtractionInsufficientError means all three tiers failed completeness
// checks. BestConfidence and the partial fields travel with it so the caller
// can offer manual correction.
type ExtractionInsufficientError struct {
	BestConfidence float64
}

func (e *ExtractionInsufficientError) Error() string {
	return fmt.Sprintf("extraction insufficient across all tiers (best confidence %.2f)", e.BestConfidence)
}

// RetryableError marks an external-service failure (timeout, 5xx, open
// breaker) that the caller may retry without re-running validation. Distinct
// from validation failures, which are never retryable.
type RetryableError struct {
	Op    string
	Cause error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%s: %v (retryable)", e.Op, e.Cause)
}

func (e *RetryableError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether err (or anything it wraps) is a RetryableError.
func Retryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// WrapRetryable tags err as retryable, preserving the original chain.
func WrapRetryable(op string, err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Op: op, Cause: err}
}

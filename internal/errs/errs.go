// Package errs classifies the matching engine's error taxonomy: whether a
// failure is transient and retryable, permanent, an eligibility skip, a
// cancellation, or fatal at startup. Retryable vs. permanent is a property
// of the error kind, not the call site that produced it.
package errs

import "errors"

// Kind tags an error with its handling policy.
type Kind int

const (
	// KindTransient covers network blips, 5xx from the LLM, store timeouts.
	// Retried with exponential backoff up to retry_attempts.
	KindTransient Kind = iota
	// KindPermanent covers invalid requests, schema mismatches, rejected
	// writes. Not retried; the job's outcome is Error.
	KindPermanent
	// KindEligibility covers jobs missing an embedding or already
	// processed. The job is silently skipped, not counted as an error.
	KindEligibility
	// KindCancellation covers a propagated cooperative-cancellation signal.
	KindCancellation
	// KindFatal covers invalid Config rejected at startup; no recovery.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	case KindEligibility:
		return "eligibility"
	case KindCancellation:
		return "cancellation"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// classified wraps an underlying error with a Kind.
type classified struct {
	kind Kind
	err  error
}

func (c *classified) Error() string { return c.err.Error() }
func (c *classified) Unwrap() error { return c.err }

// Wrap tags err with kind, preserving it for errors.Is/As and %w chains.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &classified{kind: kind, err: err}
}

// Transient wraps err as a retryable, transient failure.
func Transient(err error) error { return Wrap(KindTransient, err) }

// Permanent wraps err as a non-retryable, job-scoped failure.
func Permanent(err error) error { return Wrap(KindPermanent, err) }

// Eligibility wraps err as a silent, non-error skip condition.
func Eligibility(err error) error { return Wrap(KindEligibility, err) }

// Fatal wraps err as an unrecoverable startup failure.
func Fatal(err error) error { return Wrap(KindFatal, err) }

// KindOf returns the Kind of err, defaulting to KindPermanent for
// unclassified errors (fail closed: an error nobody tagged is never
// silently retried or skipped).
func KindOf(err error) Kind {
	var c *classified
	if errors.As(err, &c) {
		return c.kind
	}
	return KindPermanent
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool { return KindOf(err) == KindTransient }

// IsPermanent reports whether err is a non-retryable job-level failure.
func IsPermanent(err error) bool { return KindOf(err) == KindPermanent }

// IsEligibility reports whether err is a silent skip, not an error outcome.
func IsEligibility(err error) bool { return KindOf(err) == KindEligibility }

// IsFatal reports whether err should abort startup entirely.
func IsFatal(err error) bool { return KindOf(err) == KindFatal }

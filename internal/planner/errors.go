package planner

import "errors"

// Kind classifies planner outcomes for mapping to HTTP responses,
// not a type hierarchy.
type Kind string

const (
	KindBadRequest        Kind = "BadRequest"
	KindUnauthorized      Kind = "Unauthorized"
	KindRateLimited       Kind = "RateLimited"
	KindTimeout           Kind = "Timeout"
	KindStoreUnavailable  Kind = "StoreUnavailable"
	KindOracleUnavailable Kind = "OracleUnavailable"
	KindInternal          Kind = "Internal"
)

// Error wraps an underlying cause with a Kind so the HTTP layer can
// map it to a status code without inspecting error strings.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// Wrap classifies cause under kind.
func Wrap(kind Kind, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Cause: cause}
}

// ErrTimeout is returned when the generation deadline elapses before
// the pipeline completes.
var ErrTimeout = errors.New("generation deadline exceeded")

// KindOf extracts the Kind from err, defaulting to KindInternal for
// unclassified errors.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

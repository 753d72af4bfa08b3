package domain

// OutcomeKind tags how a tracker call ended.
type OutcomeKind int

const (
	OutcomeSuccess     OutcomeKind = iota // Call succeeded, Value is set
	OutcomeUnavailable                    // bd missing or not initialized
	OutcomeFailed                         // bd ran (or input was rejected) and the call failed
)

// String returns the kind name used in logs.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is a tracker call result that keeps the failure cause around
// until a caller decides to collapse it.
type Outcome[T any] struct {
	Value T
	Err   error
	Kind  OutcomeKind
}

// NewOutcome classifies a (value, error) pair.
func NewOutcome[T any](v T, err error) Outcome[T] {
	switch {
	case err == nil:
		return Outcome[T]{Value: v, Kind: OutcomeSuccess}
	case IsUnavailable(err):
		return Outcome[T]{Err: err, Kind: OutcomeUnavailable}
	default:
		return Outcome[T]{Err: err, Kind: OutcomeFailed}
	}
}

// OK reports whether the call succeeded.
func (o Outcome[T]) OK() bool {
	return o.Kind == OutcomeSuccess
}

// ValueOr returns the value on success and fallback otherwise.
func (o Outcome[T]) ValueOr(fallback T) T {
	if o.Kind != OutcomeSuccess {
		return fallback
	}
	return o.Value
}

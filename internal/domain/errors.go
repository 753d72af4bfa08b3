package domain

import "errors"

// Tracker availability and invocation errors.
// ErrToolMissing and ErrToolUninitialized mean "bd cannot be used here";
// the others mean bd ran but the call did not succeed.
var (
	ErrToolMissing        = errors.New("bd not found in PATH")
	ErrToolUninitialized  = errors.New("beads not initialized (no .beads directory)")
	ErrInvocationFailed   = errors.New("bd invocation failed")
	ErrOutputUnparseable  = errors.New("bd output could not be parsed")
	ErrTimeout            = errors.New("command timed out")
	ErrIssueNotFound      = errors.New("issue not found")
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrEmptyIssueID       = errors.New("issue id cannot be empty")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidIssueType   = errors.New("invalid issue type")
	ErrInvalidDepType     = errors.New("invalid dependency type")
	ErrInvalidPriority    = errors.New("priority must be between 0 and 4")
	ErrSelfDependency     = errors.New("issue cannot depend on itself")
	ErrFallbackDisabled   = errors.New("bd unavailable and in-session fallback is disabled")
	ErrEmptyPlan          = errors.New("plan contains no issues")
	ErrDuplicatePlanKey   = errors.New("duplicate plan key")
	ErrUnknownPlanKey     = errors.New("unknown plan key")
	ErrNotAGitRepository  = errors.New("not a git repository (or any of the parent directories)")
	ErrInvalidConfigValue = errors.New("invalid config value")
)

// IsUnavailable reports whether err means bd cannot be used in the directory,
// as opposed to bd running and failing.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrToolMissing) || errors.Is(err, ErrToolUninitialized)
}

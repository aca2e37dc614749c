package board

import "errors"

// Store error taxonomy. The HTTP client maps responses onto these; the
// cache and reconciler decide behavior with errors.Is and never inspect
// transport details.
var (
	// ErrAuth means the session is invalid or expired; callers must clear
	// local session state and return to authentication.
	ErrAuth = errors.New("session invalid")

	// ErrNotFound means the referenced task or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalid means the store rejected the input.
	ErrInvalid = errors.New("invalid input")

	// ErrEmailTaken means signup hit an already-registered email.
	ErrEmailTaken = errors.New("email already taken")

	// ErrUnavailable covers transport failures and server errors; surfaced
	// as a transient notice, never retried automatically.
	ErrUnavailable = errors.New("store unavailable")

	// ErrCacheDiverged means the cache was asked to replace a task it does
	// not hold; cache and store no longer agree and a full reload is needed.
	ErrCacheDiverged = errors.New("cache diverged from store")

	// ErrMoveInFlight means a mutation for the same task has not resolved yet.
	ErrMoveInFlight = errors.New("mutation already in flight for task")
)

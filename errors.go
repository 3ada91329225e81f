package sophia

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a value failed validation.
	ErrValidation = errors.New("validation error")

	// ErrAuth indicates the backend rejected a login or chat request.
	ErrAuth = errors.New("authentication failed")

	// ErrNetwork indicates a transport-level failure: DNS, refused
	// connection, timeout or cancellation.
	ErrNetwork = errors.New("network error")

	// ErrProtocol indicates a success response that could not be understood.
	ErrProtocol = errors.New("protocol error")

	// ErrBackend indicates a non-success status other than an auth rejection.
	ErrBackend = errors.New("backend error")

	// ErrNotFound indicates the requested conversation does not exist.
	ErrNotFound = errors.New("conversation not found")

	// ErrNotLoggedIn indicates an operation that requires an authenticated
	// session was attempted without one.
	ErrNotLoggedIn = errors.New("not logged in")
)

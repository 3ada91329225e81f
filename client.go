package sophia

import "context"

// ChatClient is a strategy pattern interface for the chat backend. The
// bearer token is passed explicitly with every request; implementations
// hold no session state.
//
// Login returns the bearer token for username. It fails with ErrAuth when
// the backend rejects the login or returns no usable token, and with
// ErrNetwork on transport failure.
//
// Send delivers one user message and returns the assistant reply. It fails
// with ErrAuth on 401/403, ErrBackend on other non-success statuses,
// ErrNetwork on transport failure and ErrProtocol on a success response
// without a reply. Calls are at-most-once: nothing is retried.
type ChatClient interface {
	Login(ctx context.Context, username string) (string, error)
	Send(ctx context.Context, req ChatRequest) (string, error)
}

// ChatRequest is a single chat exchange sent to the backend.
type ChatRequest struct {
	ID       string // request identifier, unique per call
	Message  string
	Username string
	Token    string
}

package sophia

import (
	"fmt"
	"strings"
)

// Session is the login state of the current user. The zero value is the
// logged-out session. Username and Token are either both set or both empty.
type Session struct {
	Username string
	Token    string
}

// NewSession returns an authenticated Session. Both the username and the
// bearer token must be non-blank.
func NewSession(username, token string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Session{}, fmt.Errorf("username must not be blank: %w", ErrValidation)
	}
	if strings.TrimSpace(token) == "" {
		return Session{}, fmt.Errorf("token must not be blank: %w", ErrValidation)
	}
	return Session{Username: username, Token: token}, nil
}

// IsAuthenticated reports whether the session holds a bearer token.
func (s Session) IsAuthenticated() bool { return s.Token != "" }

// Package simulated implements sophia.ChatClient without a network. Replies
// are fabricated locally after a configurable delay, which makes the client
// usable for demos and for exercising the UI's awaiting state.
package simulated

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/sophia"
	"github.com/google/uuid"
)

const defaultDelay = 600 * time.Millisecond

// Interface compliance check.
var _ sophia.ChatClient = (*Backend)(nil)

// ReplyFunc produces the reply to req.
type ReplyFunc func(req sophia.ChatRequest) string

// Backend is a local stand-in for the chat backend. Tokens it issues are
// the only ones Send accepts.
type Backend struct {
	delay time.Duration
	reply ReplyFunc

	mu     sync.Mutex
	tokens map[string]string // token -> username
}

// Option configures a [Backend].
type Option func(*Backend)

// WithDelay sets how long each call takes.
func WithDelay(d time.Duration) Option {
	return func(b *Backend) { b.delay = d }
}

// WithReplyFunc replaces the canned replies.
func WithReplyFunc(f ReplyFunc) Option {
	return func(b *Backend) { b.reply = f }
}

// New creates a [Backend].
func New(opts ...Option) *Backend {
	b := &Backend{
		delay:  defaultDelay,
		reply:  DefaultReply,
		tokens: make(map[string]string),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Login issues a fresh token for username.
func (b *Backend) Login(ctx context.Context, username string) (string, error) {
	if err := b.wait(ctx); err != nil {
		return "", fmt.Errorf("simulated: login: %w", err)
	}
	if strings.TrimSpace(username) == "" {
		return "", fmt.Errorf("simulated: login: empty username: %w", sophia.ErrAuth)
	}
	token := uuid.NewString()
	b.mu.Lock()
	b.tokens[token] = username
	b.mu.Unlock()
	return token, nil
}

// Send replies to req if its token was issued by Login.
func (b *Backend) Send(ctx context.Context, req sophia.ChatRequest) (string, error) {
	if err := b.wait(ctx); err != nil {
		return "", fmt.Errorf("simulated: chat: %w", err)
	}
	b.mu.Lock()
	_, ok := b.tokens[req.Token]
	b.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("simulated: chat: unknown token: %w", sophia.ErrAuth)
	}
	return b.reply(req), nil
}

func (b *Backend) wait(ctx context.Context) error {
	if b.delay <= 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", sophia.ErrNetwork, err)
		}
		return nil
	}
	timer := time.NewTimer(b.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", sophia.ErrNetwork, ctx.Err())
	}
}

// DefaultReply answers in the voice of the backend's persona.
func DefaultReply(req sophia.ChatRequest) string {
	text := strings.TrimSpace(req.Message)
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "hi"), strings.HasPrefix(lower, "hello"), strings.HasPrefix(lower, "hey"):
		return fmt.Sprintf("Hey %s! What's up?", req.Username)
	case strings.HasSuffix(text, "?"):
		return fmt.Sprintf("Good question. Honestly, *%s* is something I'd have to think about over coffee.", text)
	default:
		return fmt.Sprintf("You said: %q. Tell me more!", text)
	}
}

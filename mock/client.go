// Package mock provides test doubles for sophia interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/sophia"
)

// Interface compliance check.
var _ sophia.ChatClient = (*ChatClient)(nil)

// ChatClient is a test double for sophia.ChatClient.
// Set the function fields for the methods you need.
type ChatClient struct {
	LoginFn func(ctx context.Context, username string) (string, error)
	SendFn  func(ctx context.Context, req sophia.ChatRequest) (string, error)
}

// Login delegates to LoginFn.
func (c *ChatClient) Login(ctx context.Context, username string) (string, error) {
	return c.LoginFn(ctx, username)
}

// Send delegates to SendFn.
func (c *ChatClient) Send(ctx context.Context, req sophia.ChatRequest) (string, error) {
	return c.SendFn(ctx, req)
}

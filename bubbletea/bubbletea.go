// Package bubbletea provides a Bubble Tea TUI for the sophia chat client.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/sophia"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// LoginResultMsg carries a finished login call back to the event loop.
type LoginResultMsg struct {
	Result sophia.LoginResult
}

// ChatResultMsg carries a finished chat call back to the event loop.
type ChatResultMsg struct {
	Result sophia.ChatResult
}

func doLogin(ctx context.Context, call *sophia.LoginCall) tea.Cmd {
	return func() tea.Msg {
		return LoginResultMsg{Result: call.Do(ctx)}
	}
}

func doChat(ctx context.Context, call *sophia.ChatCall) tea.Cmd {
	return func() tea.Msg {
		return ChatResultMsg{Result: call.Do(ctx)}
	}
}

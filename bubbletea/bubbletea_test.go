package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/sophia"
	bt "github.com/fwojciec/sophia/bubbletea"
	"github.com/fwojciec/sophia/mock"
	"github.com/stretchr/testify/require"
)

// echoClient logs everyone in with token "T1" and answers "hello".
func echoClient() *mock.ChatClient {
	return &mock.ChatClient{
		LoginFn: func(_ context.Context, _ string) (string, error) {
			return "T1", nil
		},
		SendFn: func(_ context.Context, _ sophia.ChatRequest) (string, error) {
			return "hello", nil
		},
	}
}

// initModel creates a model over ctrl and sends a WindowSizeMsg to
// initialize the viewport.
func initModel(t *testing.T, ctrl *sophia.Controller) bt.Model {
	t.Helper()
	return initModelWithSize(t, ctrl, 100, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, ctrl *sophia.Controller, width, height int) bt.Model {
	t.Helper()
	m := bt.New(context.Background(), ctrl, sophia.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: width, Height: height})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModelCmd sends a message and returns the updated Model and command.
func updateModelCmd(t *testing.T, m bt.Model, msg tea.Msg) (bt.Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model, cmd
}

// findMsg runs cmd, descending one level into batches, and returns the
// first message of type T.
func findMsg[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if found, ok := c().(T); ok {
				return found
			}
		}
	}
	found, ok := msg.(T)
	require.True(t, ok, "command produced %T", msg)
	return found
}

// loggedInModel returns a model whose controller is logged in as alice.
func loggedInModel(t *testing.T, client sophia.ChatClient) (bt.Model, *sophia.Controller) {
	t.Helper()
	ctrl := sophia.NewController(client)
	m := initModel(t, ctrl)
	m.Login.SetValue("alice")
	m, cmd := updateModelCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = updateModel(t, m, findMsg[bt.LoginResultMsg](t, cmd))
	require.Equal(t, sophia.StateLoggedIn, ctrl.State())
	return m, ctrl
}

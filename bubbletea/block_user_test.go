package bubbletea_test

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/sophia"
	bt "github.com/fwojciec/sophia/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestUserMessageBlock_View(t *testing.T) {
	t.Parallel()

	styles := bt.NewStyles(sophia.DefaultTheme())

	t.Run("renders text behind a bar", func(t *testing.T) {
		t.Parallel()
		view := bt.NewUserMessageBlock("hello world", styles).View(80)
		assert.Contains(t, view, "hello world")
		assert.Contains(t, view, "┃")
	})

	t.Run("fills exactly the given width", func(t *testing.T) {
		t.Parallel()
		view := bt.NewUserMessageBlock("test", styles).View(40)
		for _, line := range strings.Split(view, "\n") {
			assert.Equal(t, 40, lipgloss.Width(line))
		}
	})

	t.Run("wraps long text to width", func(t *testing.T) {
		t.Parallel()
		long := "short words that keep going and going beyond the viewport width easily"
		view := bt.NewUserMessageBlock(long, styles).View(30)
		assert.Contains(t, view, "easily")
		lines := strings.Split(view, "\n")
		assert.Greater(t, len(lines), 1)
		for _, line := range lines {
			assert.LessOrEqual(t, lipgloss.Width(line), 30)
		}
	})
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/sophia"
	"github.com/fwojciec/sophia/goldmark"
)

// printTranscript writes a saved transcript to w, one conversation after
// another, with assistant replies rendered as markdown.
func printTranscript(w io.Writer, tr sophia.Transcript, width int, theme sophia.Theme) error {
	title := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle().Faint(true)
	you := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(fmt.Sprint(theme.UserMsg)))

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", muted.Render(fmt.Sprintf("Transcript of %s, saved %s", tr.Username, tr.SavedAt.Format("2006-01-02 15:04"))))
	for _, cl := range tr.Conversations {
		fmt.Fprintf(&b, "\n%s\n", title.Render(cl.Title))
		if len(cl.Messages) == 0 {
			fmt.Fprintf(&b, "%s\n", muted.Render("(no messages)"))
			continue
		}
		for _, msg := range cl.Messages {
			switch msg.Role() {
			case sophia.RoleUser:
				fmt.Fprintf(&b, "\n%s %s\n", you.Render(">"), msg.Text())
			default:
				fmt.Fprintf(&b, "\n%s\n", goldmark.Render(msg.Text(), width, theme))
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

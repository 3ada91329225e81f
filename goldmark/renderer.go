package goldmark

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/sophia"
	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// minWidth is the narrowest column nested blocks are wrapped to.
const minWidth = 10

func newParser() parser.Parser {
	return goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Linkify)).Parser()
}

type styles struct {
	bold    lipgloss.Style
	italic  lipgloss.Style
	strike  lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	link    lipgloss.Style
	code    lipgloss.Style
	quote   lipgloss.Style
}

type renderer struct {
	source []byte
	st     styles
}

func newRenderer(theme sophia.Theme, source []byte) *renderer {
	return &renderer{
		source: source,
		st: styles{
			bold:    lipgloss.NewStyle().Bold(true),
			italic:  lipgloss.NewStyle().Italic(true),
			strike:  lipgloss.NewStyle().Strikethrough(true),
			heading: lipgloss.NewStyle().Foreground(color(theme.Accent)).Bold(true),
			muted:   lipgloss.NewStyle().Foreground(color(theme.Muted)).Faint(true),
			link:    lipgloss.NewStyle().Underline(true),
			code:    lipgloss.NewStyle().Foreground(color(theme.Accent)),
			quote:   lipgloss.NewStyle().Foreground(color(theme.Muted)),
		},
	}
}

func color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

func (r *renderer) render(width int) string {
	doc := newParser().Parse(text.NewReader(r.source))
	var buf bytes.Buffer
	r.blocks(doc, width, &buf)
	return strings.TrimRight(buf.String(), "\n")
}

// blocks renders the children of node, separating siblings by a blank line.
func (r *renderer) blocks(node ast.Node, width int, buf *bytes.Buffer) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c, width, buf)
		if c.NextSibling() != nil {
			buf.WriteString("\n")
		}
	}
}

func (r *renderer) block(node ast.Node, width int, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		r.wrap(r.inlines(n), width, buf)

	case *ast.Heading:
		r.wrap(r.st.heading.Render(r.inlines(n)), width, buf)

	case *ast.FencedCodeBlock:
		if lang := string(n.Language(r.source)); lang != "" {
			buf.WriteString(r.st.muted.Render(lang) + "\n")
		}
		r.code(n, buf)

	case *ast.CodeBlock:
		r.code(n, buf)

	case *ast.Blockquote:
		var inner bytes.Buffer
		r.blocks(n, max(width-2, minWidth), &inner)
		bar := r.st.quote.Render("▌") + " "
		for _, line := range strings.Split(strings.TrimRight(inner.String(), "\n"), "\n") {
			buf.WriteString(bar + line + "\n")
		}

	case *ast.List:
		r.list(n, width, 0, buf)

	case *ast.ThematicBreak:
		buf.WriteString(r.st.muted.Render(strings.Repeat("─", min(width, defaultWidth))) + "\n")

	case *ast.HTMLBlock:
		r.lines(n, "", buf)

	default:
		r.blocks(node, width, buf)
	}
}

func (r *renderer) wrap(s string, width int, buf *bytes.Buffer) {
	buf.WriteString(lipgloss.NewStyle().Width(width).Render(s))
	buf.WriteString("\n")
}

func (r *renderer) code(n ast.Node, buf *bytes.Buffer) {
	r.lines(n, r.st.muted.Render("│")+" ", buf)
}

// lines writes the raw source lines of a block, each behind prefix.
func (r *renderer) lines(n ast.Node, prefix string, buf *bytes.Buffer) {
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		buf.WriteString(prefix + strings.TrimRight(string(seg.Value(r.source)), "\n") + "\n")
	}
}

func (r *renderer) list(n *ast.List, width, depth int, buf *bytes.Buffer) {
	num := n.Start
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if n.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		prefix := strings.Repeat("  ", depth) + marker

		var content bytes.Buffer
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			sub, ok := ic.(*ast.List)
			if !ok {
				r.block(ic, max(width-runewidth.StringWidth(prefix), minWidth), &content)
				continue
			}
			if content.Len() > 0 {
				r.item(prefix, content.String(), buf)
				content.Reset()
				prefix = strings.Repeat(" ", runewidth.StringWidth(prefix))
			}
			r.list(sub, width, depth+1, buf)
		}
		if content.Len() > 0 {
			r.item(prefix, content.String(), buf)
		}
	}
}

// item writes already-wrapped content behind prefix, indenting
// continuation lines to match.
func (r *renderer) item(prefix, content string, buf *bytes.Buffer) {
	pad := strings.Repeat(" ", runewidth.StringWidth(prefix))
	for i, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if i == 0 {
			buf.WriteString(prefix + line + "\n")
			continue
		}
		buf.WriteString(pad + line + "\n")
	}
}

func (r *renderer) inlines(node ast.Node) string {
	var buf bytes.Buffer
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(c, &buf)
	}
	return buf.String()
}

func (r *renderer) inline(node ast.Node, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(r.source))
		switch {
		case n.HardLineBreak():
			buf.WriteByte('\n')
		case n.SoftLineBreak():
			buf.WriteByte(' ')
		}

	case *ast.String:
		buf.Write(n.Value)

	case *ast.Emphasis:
		if n.Level == 1 {
			buf.WriteString(r.st.italic.Render(r.inlines(n)))
		} else {
			buf.WriteString(r.st.bold.Render(r.inlines(n)))
		}

	case *extast.Strikethrough:
		buf.WriteString(r.st.strike.Render(r.inlines(n)))

	case *ast.CodeSpan:
		buf.WriteString(r.st.code.Render(r.inlines(n)))

	case *ast.Link:
		buf.WriteString(r.st.link.Render(r.inlines(n)))
		buf.WriteString(" " + r.st.muted.Render("("+string(n.Destination)+")"))

	case *ast.AutoLink:
		buf.WriteString(r.st.link.Render(string(n.URL(r.source))))

	case *ast.Image:
		buf.WriteString(r.st.link.Render(r.inlines(n)))
		buf.WriteString(" " + r.st.muted.Render("("+string(n.Destination)+")"))

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(r.source))
		}

	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.inline(c, buf)
		}
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/steptrail/internal/ui/styles"
)

// ContentRenderer turns markdown source into terminal text of a given width.
type ContentRenderer interface {
	RenderContent(src string, width int) string
}

// =============================================================================
// TERMINAL RENDERER
// =============================================================================

// TerminalRenderer renders nodes with Lip Gloss styles.
type TerminalRenderer struct {
	Text      lipgloss.Style
	Strong    lipgloss.Style
	Emphasis  lipgloss.Style
	Code      lipgloss.Style
	Link      lipgloss.Style
	LinkURL   lipgloss.Style
	Heading   lipgloss.Style
	Rule      lipgloss.Style
	Quote     lipgloss.Style
	CodeBlock lipgloss.Style
	LangBadge lipgloss.Style

	// HighlightCode enables chroma highlighting of fenced code.
	HighlightCode bool
}

// NewTerminalRenderer creates a renderer using the shared palette.
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		Text:     lipgloss.NewStyle().Foreground(styles.TextPrimary),
		Strong:   lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true),
		Emphasis: lipgloss.NewStyle().Foreground(styles.TextPrimary).Italic(true),
		Code: lipgloss.NewStyle().
			Foreground(styles.Amber).
			Background(styles.SurfaceDim),
		Link:    lipgloss.NewStyle().Foreground(styles.Cyan).Underline(true),
		LinkURL: lipgloss.NewStyle().Foreground(styles.TextMuted),
		Heading: lipgloss.NewStyle().Foreground(styles.Purple).Bold(true),
		Rule:    lipgloss.NewStyle().Foreground(styles.Overlay),
		Quote: lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(styles.OverlayDim).
			PaddingLeft(1),
		CodeBlock: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.Overlay).
			Padding(0, 1),
		LangBadge: lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Bold(true),
		HighlightCode: true,
	}
}

// RenderContent parses src and renders it.
func (r *TerminalRenderer) RenderContent(src string, width int) string {
	return r.Render(Parse(src), width)
}

// Render renders block nodes wrapped to width. A width below 1 disables wrapping.
func (r *TerminalRenderer) Render(nodes []Node, width int) string {
	blocks := make([]string, 0, len(nodes))
	for _, n := range nodes {
		blocks = append(blocks, r.block(n, width))
	}
	return strings.Join(blocks, "\n")
}

func (r *TerminalRenderer) block(n Node, width int) string {
	switch n.Kind {
	case KindHeading:
		prefix := strings.Repeat("#", clampLevel(n.Level)) + " "
		return r.wrap(r.Heading.Render(prefix+PlainText(n.Children)), width)

	case KindParagraph:
		return r.wrap(r.inlines(n.Children), width)

	case KindCodeBlock:
		return r.codeBlock(n, width)

	case KindList:
		return r.list(n, width, 0)

	case KindRule:
		w := width
		if w < 1 {
			w = 40
		}
		return r.Rule.Render(strings.Repeat("-", w))

	case KindQuote:
		inner := width - 2
		if width < 1 {
			inner = 0
		}
		return r.Quote.Render(r.Render(n.Children, inner))
	}
	return r.wrap(r.inlines([]Node{n}), width)
}

func (r *TerminalRenderer) list(n Node, width, depth int) string {
	indent := strings.Repeat("  ", depth)
	var lines []string
	for i, item := range n.Children {
		marker := "- "
		if n.Ordered {
			start := n.Start
			if start < 1 {
				start = 1
			}
			marker = fmt.Sprintf("%d. ", start+i)
		}

		var inline []Node
		var nested []string
		for _, child := range item.Children {
			switch {
			case child.Kind == KindList:
				nested = append(nested, r.list(child, width, depth+1))
			case child.Kind.IsBlock():
				nested = append(nested, r.block(child, width-len(indent)-len(marker)))
			default:
				inline = append(inline, child)
			}
		}

		body := r.inlines(trimBreaks(inline))
		bodyWidth := width - len(indent) - len(marker)
		if width > 0 && bodyWidth > 0 {
			body = lipgloss.NewStyle().Width(bodyWidth).Render(body)
		}
		hang := strings.Repeat(" ", len(indent)+len(marker))
		bodyLines := strings.Split(body, "\n")
		for j, line := range bodyLines {
			if j == 0 {
				lines = append(lines, indent+marker+line)
				continue
			}
			lines = append(lines, hang+line)
		}
		lines = append(lines, nested...)
	}
	return strings.Join(lines, "\n")
}

func (r *TerminalRenderer) codeBlock(n Node, width int) string {
	code := n.Text
	if r.HighlightCode {
		lang := n.Lang
		if lang == "" {
			lang = DetectLanguage(code)
		}
		code = Highlight(code, lang)
	}
	if n.Lang != "" {
		code = r.LangBadge.Render(n.Lang) + "\n" + code
	}
	style := r.CodeBlock
	if width > 4 {
		style = style.MaxWidth(width)
	}
	return style.Render(code)
}

func (r *TerminalRenderer) inlines(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(r.inline(n))
	}
	return b.String()
}

func (r *TerminalRenderer) inline(n Node) string {
	switch n.Kind {
	case KindText:
		return r.Text.Render(sanitize(n.Text))
	case KindStrong:
		return r.Strong.Render(sanitize(PlainText(n.Children)))
	case KindEmphasis:
		return r.Emphasis.Render(sanitize(PlainText(n.Children)))
	case KindCode:
		return r.Code.Render(sanitize(n.Text))
	case KindLineBreak:
		return "\n"
	case KindLink:
		label := sanitize(PlainText(n.Children))
		out := r.Link.Render(label)
		if n.URL != "" && n.URL != label {
			out += " " + r.LinkURL.Render("("+sanitize(n.URL)+")")
		}
		return out
	}
	return r.inlines(n.Children)
}

func (r *TerminalRenderer) wrap(s string, width int) string {
	if width < 1 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

// sanitize strips control characters so content cannot emit its own
// escape sequences.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

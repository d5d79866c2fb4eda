// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/util"
)

// RenderHTML renders nodes as escaped markup. Blocks are joined by <br>;
// list items are grouped in one <ul> (or <ol>) with no <br> inside.
func RenderHTML(nodes []Node) string {
	var b strings.Builder
	writeHTMLBlocks(&b, nodes)
	return b.String()
}

// ToHTML is Parse followed by RenderHTML.
func ToHTML(src string) string {
	return RenderHTML(Parse(src))
}

func writeHTMLBlocks(b *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteString("<br>")
		}
		writeHTML(b, n)
	}
}

func writeHTMLInlines(b *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		writeHTML(b, n)
	}
}

func writeHTML(b *strings.Builder, n Node) {
	switch n.Kind {
	case KindText:
		b.Write(util.EscapeHTML([]byte(n.Text)))

	case KindStrong:
		b.WriteString("<strong>")
		writeHTMLInlines(b, n.Children)
		b.WriteString("</strong>")

	case KindEmphasis:
		b.WriteString("<em>")
		writeHTMLInlines(b, n.Children)
		b.WriteString("</em>")

	case KindCode:
		b.WriteString("<code>")
		b.Write(util.EscapeHTML([]byte(n.Text)))
		b.WriteString("</code>")

	case KindLineBreak:
		b.WriteString("<br>")

	case KindLink:
		if !safeURL(n.URL) {
			writeHTMLInlines(b, n.Children)
			return
		}
		b.WriteString(`<a href="`)
		b.Write(util.EscapeHTML([]byte(n.URL)))
		b.WriteString(`">`)
		writeHTMLInlines(b, n.Children)
		b.WriteString("</a>")

	case KindHeading:
		level := n.Level
		if level < 1 || level > 6 {
			level = 1
		}
		tag := "h" + strconv.Itoa(level)
		b.WriteString("<" + tag + ">")
		writeHTMLInlines(b, n.Children)
		b.WriteString("</" + tag + ">")

	case KindParagraph:
		writeHTMLInlines(b, n.Children)

	case KindCodeBlock:
		b.WriteString("<pre><code")
		if n.Lang != "" {
			b.WriteString(` class="language-`)
			b.Write(util.EscapeHTML([]byte(n.Lang)))
			b.WriteString(`"`)
		}
		b.WriteString(">")
		b.Write(util.EscapeHTML([]byte(n.Text)))
		b.WriteString("</code></pre>")

	case KindList:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
		}
		b.WriteString("<" + tag)
		if n.Ordered && n.Start > 1 {
			b.WriteString(` start="` + strconv.Itoa(n.Start) + `"`)
		}
		b.WriteString(">")
		for _, item := range n.Children {
			writeHTML(b, item)
		}
		b.WriteString("</" + tag + ">")

	case KindListItem:
		b.WriteString("<li>")
		writeHTMLInlines(b, n.Children)
		b.WriteString("</li>")

	case KindRule:
		b.WriteString("<hr>")

	case KindQuote:
		b.WriteString("<blockquote>")
		writeHTMLBlocks(b, n.Children)
		b.WriteString("</blockquote>")
	}
}

// safeURL allows web, mail and relative links only.
func safeURL(u string) bool {
	lower := strings.ToLower(strings.TrimSpace(u))
	if lower == "" {
		return false
	}
	for _, prefix := range []string{"http://", "https://", "mailto:", "/", "#", "./", "../"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return !strings.Contains(lower, ":")
}

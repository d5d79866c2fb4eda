// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import "strings"

// Kind identifies the type of a Node.
type Kind int

const (
	KindText Kind = iota
	KindStrong
	KindEmphasis
	KindCode
	KindLineBreak
	KindLink
	KindHeading
	KindParagraph
	KindCodeBlock
	KindList
	KindListItem
	KindRule
	KindQuote
)

var kindNames = map[Kind]string{
	KindText:      "text",
	KindStrong:    "strong",
	KindEmphasis:  "emphasis",
	KindCode:      "code",
	KindLineBreak: "linebreak",
	KindLink:      "link",
	KindHeading:   "heading",
	KindParagraph: "paragraph",
	KindCodeBlock: "codeblock",
	KindList:      "list",
	KindListItem:  "listitem",
	KindRule:      "rule",
	KindQuote:     "quote",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsBlock reports whether nodes of this kind start a new block.
func (k Kind) IsBlock() bool {
	return k >= KindHeading
}

// Node is one element of parsed markdown.
type Node struct {
	Kind Kind

	// Text holds the literal for Text, Code and CodeBlock nodes.
	Text string

	// Level is the heading level (1-6).
	Level int

	// Lang is the fenced code block info string.
	Lang string

	// URL is the link destination.
	URL string

	// Ordered marks numbered lists; Start is the first number.
	Ordered bool
	Start   int

	Children []Node
}

// PlainText flattens nodes to their visible text.
func PlainText(nodes []Node) string {
	var b strings.Builder
	writePlain(&b, nodes)
	return b.String()
}

func writePlain(b *strings.Builder, nodes []Node) {
	for i, n := range nodes {
		if i > 0 && n.Kind.IsBlock() {
			b.WriteByte('\n')
		}
		switch n.Kind {
		case KindText, KindCode, KindCodeBlock:
			b.WriteString(n.Text)
		case KindLineBreak:
			b.WriteByte('\n')
		case KindRule:
			b.WriteString("---")
		default:
			writePlain(b, n.Children)
		}
	}
}

// trimBreaks drops leading and trailing line breaks from inline content.
func trimBreaks(nodes []Node) []Node {
	for len(nodes) > 0 && nodes[0].Kind == KindLineBreak {
		nodes = nodes[1:]
	}
	for len(nodes) > 0 && nodes[len(nodes)-1].Kind == KindLineBreak {
		nodes = nodes[:len(nodes)-1]
	}
	return nodes
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// parser is the shared goldmark instance. Linkify turns bare URLs into links.
var parser = goldmark.New(
	goldmark.WithExtensions(extension.Linkify),
)

// Parse converts markdown source into typed block nodes. It never fails;
// anything goldmark does not recognise degrades to plain text.
func Parse(src string) []Node {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	source := []byte(src)
	doc := parser.Parser().Parse(text.NewReader(source))
	c := converter{source: source}
	return c.blocks(doc)
}

// converter walks a goldmark AST for a single source buffer.
type converter struct {
	source []byte
}

// blocks converts the block children of n.
func (c converter) blocks(n ast.Node) []Node {
	var out []Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if node, ok := c.block(child); ok {
			out = append(out, node)
		}
	}
	return out
}

func (c converter) block(n ast.Node) (Node, bool) {
	switch v := n.(type) {
	case *ast.Heading:
		return Node{Kind: KindHeading, Level: v.Level, Children: trimBreaks(c.inlines(v))}, true

	case *ast.Paragraph, *ast.TextBlock:
		children := trimBreaks(c.inlines(v))
		if len(children) == 0 {
			return Node{}, false
		}
		return Node{Kind: KindParagraph, Children: children}, true

	case *ast.FencedCodeBlock:
		return Node{Kind: KindCodeBlock, Lang: string(v.Language(c.source)), Text: strings.TrimSuffix(c.lines(v), "\n")}, true

	case *ast.CodeBlock:
		return Node{Kind: KindCodeBlock, Text: strings.TrimSuffix(c.lines(v), "\n")}, true

	case *ast.List:
		list := Node{Kind: KindList, Ordered: v.IsOrdered(), Start: v.Start}
		for item := v.FirstChild(); item != nil; item = item.NextSibling() {
			list.Children = append(list.Children, c.listItem(item))
		}
		return list, true

	case *ast.ThematicBreak:
		return Node{Kind: KindRule}, true

	case *ast.Blockquote:
		return Node{Kind: KindQuote, Children: c.blocks(v)}, true

	case *ast.HTMLBlock:
		raw := c.lines(v)
		if v.HasClosure() {
			raw += string(v.ClosureLine.Value(c.source))
		}
		raw = strings.TrimRight(raw, "\n")
		if raw == "" {
			return Node{}, false
		}
		return Node{Kind: KindParagraph, Children: []Node{{Kind: KindText, Text: raw}}}, true
	}

	// Unknown block: keep whatever inline text it has.
	children := trimBreaks(c.inlines(n))
	if len(children) == 0 {
		return Node{}, false
	}
	return Node{Kind: KindParagraph, Children: children}, true
}

// listItem flattens the item's paragraphs into inline content so a tight
// item renders as a single line. Nested blocks are kept as blocks.
func (c converter) listItem(n ast.Node) Node {
	item := Node{Kind: KindListItem}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			if len(item.Children) > 0 {
				item.Children = append(item.Children, Node{Kind: KindLineBreak})
			}
			item.Children = append(item.Children, trimBreaks(c.inlines(child))...)
		default:
			if node, ok := c.block(child); ok {
				item.Children = append(item.Children, node)
			}
		}
	}
	return item
}

// inlines converts the inline children of n.
func (c converter) inlines(n ast.Node) []Node {
	var out []Node
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, c.inline(child)...)
	}
	return out
}

func (c converter) inline(n ast.Node) []Node {
	switch v := n.(type) {
	case *ast.Text:
		value := v.Segment.Value(c.source)
		if !v.IsRaw() {
			value = decodeText(value)
		}
		out := []Node{{Kind: KindText, Text: string(value)}}
		if v.SoftLineBreak() || v.HardLineBreak() {
			out = append(out, Node{Kind: KindLineBreak})
		}
		return out

	case *ast.String:
		value := v.Value
		if !v.IsRaw() && !v.IsCode() {
			value = decodeText(value)
		}
		return []Node{{Kind: KindText, Text: string(value)}}

	case *ast.CodeSpan:
		var b strings.Builder
		for child := v.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				b.Write(t.Segment.Value(c.source))
			} else if s, ok := child.(*ast.String); ok {
				b.Write(s.Value)
			}
		}
		return []Node{{Kind: KindCode, Text: b.String()}}

	case *ast.Emphasis:
		kind := KindEmphasis
		if v.Level >= 2 {
			kind = KindStrong
		}
		return []Node{{Kind: kind, Children: c.inlines(v)}}

	case *ast.Link:
		return []Node{{Kind: KindLink, URL: string(v.Destination), Children: c.inlines(v)}}

	case *ast.AutoLink:
		return []Node{{
			Kind:     KindLink,
			URL:      string(v.URL(c.source)),
			Children: []Node{{Kind: KindText, Text: string(v.Label(c.source))}},
		}}

	case *ast.Image:
		// Terminals cannot show images; keep the alt text.
		return c.inlines(v)

	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			b.Write(seg.Value(c.source))
		}
		return []Node{{Kind: KindText, Text: b.String()}}
	}
	return c.inlines(n)
}

// decodeText resolves backslash escapes and character references, as
// goldmark's HTML writer does before escaping. Code keeps its raw bytes.
func decodeText(b []byte) []byte {
	b = util.UnescapePunctuations(b)
	b = util.ResolveNumericReferences(b)
	return util.ResolveEntityNames(b)
}

// lines joins the raw lines of a block node.
func (c converter) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.source))
	}
	return b.String()
}

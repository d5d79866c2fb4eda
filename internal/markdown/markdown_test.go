// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse_Empty(t *testing.T) {
	assert.Nil(t, Parse(""))
	assert.Nil(t, Parse("   \n\t"))
}

func TestParse_Inline(t *testing.T) {
	nodes := Parse("**bold** and *em* with `code`")
	require.Len(t, nodes, 1)
	para := nodes[0]
	require.Equal(t, KindParagraph, para.Kind)

	var kinds []Kind
	for _, n := range para.Children {
		if n.Kind != KindText {
			kinds = append(kinds, n.Kind)
		}
	}
	assert.Equal(t, []Kind{KindStrong, KindEmphasis, KindCode}, kinds)
	assert.Equal(t, "bold and em with code", PlainText(nodes))
}

func TestParse_Blocks(t *testing.T) {
	src := "# Title\n\nSome text\n\n- one\n- two\n\n```go\nfmt.Println(1)\n```\n\n---\n\n> quoted"
	nodes := Parse(src)

	var kinds []Kind
	for _, n := range nodes {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []Kind{KindHeading, KindParagraph, KindList, KindCodeBlock, KindRule, KindQuote}, kinds)

	assert.Equal(t, 1, nodes[0].Level)
	assert.Len(t, nodes[2].Children, 2)
	assert.Equal(t, "go", nodes[3].Lang)
	assert.Equal(t, "fmt.Println(1)", nodes[3].Text)
}

func TestParse_OrderedList(t *testing.T) {
	nodes := Parse("3. c\n4. d")
	require.Len(t, nodes, 1)
	assert.True(t, nodes[0].Ordered)
	assert.Equal(t, 3, nodes[0].Start)
}

// =============================================================================
// HTML TESTS
// =============================================================================

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strong and emphasis", "**bold** and *em*", "<strong>bold</strong> and <em>em</em>"},
		{"inline code", "run `x<y`", "run <code>x&lt;y</code>"},
		{"list grouping", "- one\n- two", "<ul><li>one</li><li>two</li></ul>"},
		{"paragraph then list", "intro\n- a\n- b", "intro<br><ul><li>a</li><li>b</li></ul>"},
		{"soft break", "line1\nline2", "line1<br>line2"},
		{"blocks joined", "Para1\n\nPara2", "Para1<br>Para2"},
		{"escapes text", "a < b & c", "a &lt; b &amp; c"},
		{"backslash escapes", `\*not italic\*`, "*not italic*"},
		{"entity kept once", "a &amp; b", "a &amp; b"},
		{"safe text is stable", "a &lt; b", "a &lt; b"},
		{"numeric reference", "caf&#233;", "café"},
		{"code span stays raw", "`a &amp; b`", "<code>a &amp;amp; b</code>"},
		{"html block escaped", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"link", "[site](https://e.com)", `<a href="https://e.com">site</a>`},
		{"unsafe link dropped", "[x](javascript:alert(1))", "x"},
		{"heading", "## Plan", "<h2>Plan</h2>"},
		{"fenced code", "```go\nfmt.Println(1)\n```", `<pre><code class="language-go">fmt.Println(1)</code></pre>`},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTML(tc.in))
		})
	}
}

func TestToHTML_Idempotent(t *testing.T) {
	once := ToHTML("x &lt; y &amp; z")
	assert.Equal(t, once, ToHTML(once))
}

func TestToHTML_NoBreakInsideList(t *testing.T) {
	out := ToHTML("- a\n- b\n- c")
	start := strings.Index(out, "<ul>")
	end := strings.Index(out, "</ul>")
	require.True(t, start >= 0 && end > start)
	assert.NotContains(t, out[start:end], "<br>")
}

func TestToHTML_Autolink(t *testing.T) {
	out := ToHTML("see https://example.com")
	assert.Contains(t, out, `<a href="https://example.com">https://example.com</a>`)
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://a.b", true},
		{"http://a.b", true},
		{"mailto:x@y.z", true},
		{"/path", true},
		{"relative/page", true},
		{"javascript:alert(1)", false},
		{"JAVASCRIPT:alert(1)", false},
		{"data:text/html;base64,xx", false},
		{"", false},
	}
	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			assert.Equal(t, tc.want, safeURL(tc.url))
		})
	}
}

// =============================================================================
// TERMINAL TESTS
// =============================================================================

func TestTerminalRenderer_Render(t *testing.T) {
	r := NewTerminalRenderer()
	r.HighlightCode = false

	out := r.RenderContent("# Title\n\n**bold** text\n\n- one\n- two\n\n1. first\n2. second", 0)
	for _, want := range []string{"# Title", "bold text", "- one", "- two", "1. first", "2. second"} {
		assert.Contains(t, out, want)
	}
}

func TestTerminalRenderer_CodeBlock(t *testing.T) {
	r := NewTerminalRenderer()
	out := r.RenderContent("```go\nfmt.Println(1)\n```", 40)
	assert.Contains(t, out, "go")
	assert.Contains(t, out, "Println")
}

func TestTerminalRenderer_StripsControlCharacters(t *testing.T) {
	r := NewTerminalRenderer()
	out := r.RenderContent("evil \x1b[31mred", 0)
	assert.NotContains(t, out, "\x1b[31m")
	assert.Contains(t, out, "evil")
}

func TestTerminalRenderer_DecodesEscapes(t *testing.T) {
	r := NewTerminalRenderer()
	out := r.RenderContent(`\*literal\* a &amp; b`, 0)
	assert.Contains(t, out, "*literal* a & b")
	assert.NotContains(t, out, `\*`)
	assert.NotContains(t, out, "&amp;")
}

func TestTerminalRenderer_Link(t *testing.T) {
	r := NewTerminalRenderer()
	out := r.RenderContent("[docs](https://d.io)", 0)
	assert.Contains(t, out, "docs")
	assert.Contains(t, out, "(https://d.io)")
}

func TestGlamourRenderer(t *testing.T) {
	g := NewGlamourRenderer("notty")
	out := g.RenderContent("**hello** world", 40)
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "world")

	// Cached per width.
	g.RenderContent("again", 40)
	assert.Len(t, g.byWidth, 1)
}

func TestNewContentRenderer(t *testing.T) {
	_, ok := NewContentRenderer("glamour").(*GlamourRenderer)
	assert.True(t, ok)
	_, ok = NewContentRenderer("nodes").(*TerminalRenderer)
	assert.True(t, ok)
	_, ok = NewContentRenderer("").(*TerminalRenderer)
	assert.True(t, ok)
}

func TestHighlight_FallsBack(t *testing.T) {
	out := Highlight("plain words", "definitely-not-a-language")
	assert.Contains(t, out, "plain")
}

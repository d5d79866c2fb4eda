// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// GlamourRenderer renders content with glamour. Renderers are cached per
// width; on any glamour error it falls back to the terminal renderer.
type GlamourRenderer struct {
	mu       sync.Mutex
	byWidth  map[int]*glamour.TermRenderer
	style    string
	fallback ContentRenderer
}

// NewGlamourRenderer creates a renderer. An empty style selects auto
// light/dark detection.
func NewGlamourRenderer(style string) *GlamourRenderer {
	return &GlamourRenderer{
		byWidth:  make(map[int]*glamour.TermRenderer),
		style:    style,
		fallback: NewTerminalRenderer(),
	}
}

// RenderContent renders src wrapped to width.
func (g *GlamourRenderer) RenderContent(src string, width int) string {
	tr, err := g.renderer(width)
	if err != nil {
		return g.fallback.RenderContent(src, width)
	}
	out, err := tr.Render(src)
	if err != nil {
		return g.fallback.RenderContent(src, width)
	}
	return strings.Trim(out, "\n")
}

func (g *GlamourRenderer) renderer(width int) (*glamour.TermRenderer, error) {
	if width < 1 {
		width = 80
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if tr, ok := g.byWidth[width]; ok {
		return tr, nil
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if g.style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(g.style))
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	g.byWidth[width] = tr
	return tr, nil
}

// NewContentRenderer returns the renderer named by kind ("nodes" or "glamour").
func NewContentRenderer(kind string) ContentRenderer {
	if kind == "glamour" {
		return NewGlamourRenderer("")
	}
	return NewTerminalRenderer()
}

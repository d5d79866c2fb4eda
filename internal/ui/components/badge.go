// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/steptrail/internal/ui/styles"
	"github.com/jeranaias/steptrail/internal/util"
)

// =============================================================================
// INTEGRATION BADGE
// =============================================================================

// IconSource resolves integration references. *integrations.Lookup
// satisfies it.
type IconSource interface {
	Icon(id string) (string, bool)
	Name(id string) (string, bool)
}

// BadgeKind is how an integration badge is drawn.
type BadgeKind int

const (
	// BadgeDot is drawn for steps without an integration reference.
	BadgeDot BadgeKind = iota
	// BadgeGlyph draws the integration's icon as text.
	BadgeGlyph
	// BadgeLetter draws the first letter of the integration name.
	BadgeLetter
)

func (k BadgeKind) String() string {
	switch k {
	case BadgeDot:
		return "dot"
	case BadgeGlyph:
		return "glyph"
	case BadgeLetter:
		return "letter"
	}
	return "unknown"
}

// dotGlyph is the neutral badge.
const dotGlyph = "·"

// maxGlyphWidth is the widest icon drawn as text; anything wider is
// treated like an image that failed to load.
const maxGlyphWidth = 2

// Badge is a resolved integration badge.
type Badge struct {
	Kind BadgeKind
	Text string
	// Name is the integration name, when known. It selects the letter color.
	Name string
}

// ResolveBadge resolves the badge for an integration reference. An empty
// reference gets the dot. Icons that cannot be drawn in a terminal (URLs,
// long strings) and missing icons fall back to the initial letter.
func ResolveBadge(src IconSource, integrationID string) Badge {
	if integrationID == "" {
		return Badge{Kind: BadgeDot, Text: dotGlyph}
	}

	var name string
	if src != nil {
		if icon, ok := src.Icon(integrationID); ok && isTextIcon(icon) {
			name, _ = src.Name(integrationID)
			return Badge{Kind: BadgeGlyph, Text: icon, Name: name}
		}
		name, _ = src.Name(integrationID)
	}
	return Badge{Kind: BadgeLetter, Text: InitialLetter(name), Name: name}
}

// InitialLetter returns the upper-cased first character of name, or "?".
// The name is NFC-normalised first so a decomposed accent stays with its
// base letter.
func InitialLetter(name string) string {
	name = strings.TrimSpace(norm.NFC.String(name))
	if name == "" {
		return "?"
	}
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "?"
	}
	end := size
	for end < len(name) {
		next, n := utf8.DecodeRuneInString(name[end:])
		if !unicode.Is(unicode.Mn, next) {
			break
		}
		end += n
	}
	return strings.ToUpper(name[:end])
}

// Width is the number of cells the badge occupies.
func (b Badge) Width() int {
	w := util.StringWidth(b.Text)
	if b.Kind == BadgeLetter {
		w += 2 // padding
	}
	return w
}

// Render draws the badge. A fading badge is drawn dimmed.
func (b Badge) Render(theme *styles.Theme, stage styles.RevealStage) string {
	switch stage {
	case styles.RevealHidden:
		return strings.Repeat(" ", b.Width())
	case styles.RevealFading:
		if b.Kind == BadgeLetter {
			return theme.BadgeFading.Padding(0, 1).Render(b.Text)
		}
		return theme.BadgeFading.Render(b.Text)
	}

	switch b.Kind {
	case BadgeGlyph:
		return theme.BadgeGlyph.Render(b.Text)
	case BadgeLetter:
		return theme.BadgeLetter.Background(styles.BadgeColor(b.Name)).Render(b.Text)
	default:
		return theme.BadgeDot.Render(b.Text)
	}
}

// isTextIcon reports whether icon can be printed as-is.
func isTextIcon(icon string) bool {
	icon = strings.TrimSpace(icon)
	if icon == "" || strings.ContainsAny(icon, "/:.") {
		return false
	}
	return util.StringWidth(icon) <= maxGlyphWidth
}

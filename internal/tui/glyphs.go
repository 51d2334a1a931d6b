package tui

import (
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// Terminal apps can't change the user's font. Instead we choose between
// Unicode and ASCII glyph sets for the tree twisties, which helps on
// terminals/fonts that don't render the triangles cleanly.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("RCTUI_GLYPHS")))
	switch v {
	case "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	case "":
		// Dumb terminals tend to also lack the triangle glyphs.
		if termenv.EnvColorProfile() == termenv.Ascii {
			setGlyphs(glyphSetASCII)
		} else {
			setGlyphs(glyphSetUnicode)
		}
	default:
		// Unknown value: ignore.
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func twistyExpanded() string {
	if glyphs() == glyphSetASCII {
		return "v "
	}
	return "▾ "
}

func twistyCollapsed() string {
	if glyphs() == glyphSetASCII {
		return "> "
	}
	return "▸ "
}

func twistyLeaf() string { return "  " }

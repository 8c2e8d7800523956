// Package font holds the bitmap fonts available to the console renderer.
// Font data files are generated by tools/mkfont and register themselves via
// an init block.
package font

// The list of available fonts.
var availableFonts []*Font

// Font describes a fixed-size bitmap font.
type Font struct {
	// The name of the font.
	Name string

	// The width and height of each glyph in pixels.
	GlyphWidth  uint32
	GlyphHeight uint32

	// The recommended console resolution for this font.
	RecommendedWidth  uint32
	RecommendedHeight uint32

	// Font priority (lower is better). When auto-detecting a font to
	// use, the font with the lowest priority is preferred.
	Priority uint32

	// The number of bytes describing a single glyph row.
	BytesPerRow uint32

	// The font bitmap. Glyph i occupies the BytesPerRow * GlyphHeight
	// bytes starting at index i * BytesPerRow * GlyphHeight; within each
	// row byte the most significant bit maps to the leftmost pixel.
	Data []byte
}

// FindByName looks up a font by name. It returns nil if no font with that
// name is registered.
func FindByName(name string) *Font {
	for _, f := range availableFonts {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// BestFit selects the registered font whose recommended resolution is
// closest to the supplied console dimensions, using the sum of the absolute
// width and height deltas as the distance. Ties are broken by the font
// priority.
func BestFit(consoleWidth, consoleHeight uint32) *Font {
	var (
		best      *Font
		bestDelta uint32
	)

	for _, f := range availableFonts {
		delta := absDelta(f.RecommendedWidth, consoleWidth) + absDelta(f.RecommendedHeight, consoleHeight)

		if best == nil || delta < bestDelta || (delta == bestDelta && f.Priority < best.Priority) {
			best = f
			bestDelta = delta
		}
	}

	return best
}

func absDelta(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

package oledfont

import (
	"errors"

	"github.com/pbnjay/oledfont/internal/bdf"
	"github.com/pbnjay/oledfont/internal/bitmap"
)

var (
	// ErrMalformedInput means the font text could not be decoded or is
	// truncated. The conversion fails.
	ErrMalformedInput = bdf.ErrMalformedInput

	// ErrMalformedGlyph means one glyph lacks ENCODING, BBX or BITMAP,
	// or has broken bitmap rows. The glyph is dropped.
	ErrMalformedGlyph = bdf.ErrMalformedGlyph

	// ErrInvalidGlyphLayout means a transform could not be applied to a
	// glyph. The glyph is dropped.
	ErrInvalidGlyphLayout = bitmap.ErrInvalidGlyphLayout

	// ErrEmptyFont means no glyph survived filtering. The conversion fails.
	ErrEmptyFont = errors.New("no glyphs to convert")
)

// GlyphError describes a glyph which was left out of a converted font.
type GlyphError = bdf.GlyphError

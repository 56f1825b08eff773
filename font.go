// Package oledfont converts BDF bitmap fonts into the packed glyph arrays
// used by small monochrome displays such as SSD1306 OLED panels.
//
// A converted font is a PackedFont: a single byte buffer holding one
// fixed-size bitmap per glyph in ascending codepoint order, together with
// the glyph width, the number of bytes per glyph, the glyph count and the
// first codepoint. PackedFont can also draw text into any image which
// implements Drawable, and NewFace exposes it as a font.Face.
package oledfont

import (
	"bytes"
	"image/color"
	"slices"

	"github.com/pbnjay/oledfont/internal/bitmap"
)

// Layout records the geometry of the glyphs in a PackedFont.
type Layout struct {
	// GlyphWidth and GlyphHeight give the glyph size in pixels, as drawn
	// on screen (i.e. before any rotation).
	GlyphWidth, GlyphHeight int

	Rotated     bool // glyphs are stored column by column
	Flipped     bool // bits in each byte are reversed
	DroppedLast bool // the final byte of each glyph was removed
}

func (l Layout) bits() bitmap.Layout {
	return bitmap.Layout{
		Width:  l.GlyphWidth,
		Height: l.GlyphHeight,
		Transforms: bitmap.Transforms{
			Rotate:   l.Rotated,
			Flip:     l.Flipped,
			DropLast: l.DroppedLast,
		},
	}
}

// FontInfo carries descriptive information from the source font.
type FontInfo struct {
	Name        string
	Copyright   string
	PointSize   int
	ResolutionX int
	ResolutionY int

	// BoundingBox is the glyph cell: width, height, x and y offset.
	BoundingBox [4]int

	NumGlyphs int // glyph count declared by the source
	Subset    Range
	Ascender  int
}

// PackedFont is a converted font.
type PackedFont struct {
	// Width is the pixel width of one packed glyph row. For rotated fonts
	// this is the glyph height.
	Width         int
	BytesPerGlyph int
	Count         int
	First         rune

	// Data holds Count glyphs of BytesPerGlyph bytes each.
	Data []byte

	// Codepoints lists the codepoint of every glyph when they are not
	// consecutive. If nil, glyph i has codepoint First+i.
	Codepoints []rune

	Layout Layout

	// Ascent is the number of pixel rows above the baseline.
	Ascent int

	Info FontInfo

	// Dropped lists the glyphs which were left out.
	Dropped []*GlyphError
}

// Index returns the glyph index for codepoint r.
func (p *PackedFont) Index(r rune) (int, bool) {
	if p.Codepoints == nil {
		i := int(r - p.First)
		return i, r >= p.First && i < p.Count
	}
	return slices.BinarySearch(p.Codepoints, r)
}

// Codepoint returns the codepoint of glyph i.
func (p *PackedFont) Codepoint(i int) rune {
	if p.Codepoints == nil {
		return p.First + rune(i)
	}
	return p.Codepoints[i]
}

// Glyph returns the packed bytes of glyph i. The slice aliases Data.
func (p *PackedFont) Glyph(i int) []byte {
	return p.Data[i*p.BytesPerGlyph : (i+1)*p.BytesPerGlyph]
}

// Pixel reports whether pixel (x, y) of glyph i is set, with (0, 0) the
// top-left corner of the glyph as displayed.
func (p *PackedFont) Pixel(i, x, y int) bool {
	return p.Layout.bits().At(p.Glyph(i), x, y)
}

// Drawable is an interface which supports setting an x,y coordinate to a color.
type Drawable interface {
	Set(x, y int, c color.Color)
}

// DrawRune draws a single rune in the provided color with its top-left
// corner at x,y. Drawable.Set is called for each set pixel, all other
// pixels are left as-is. If the font has no glyph for c, DrawRune returns
// false and draws nothing.
func (p *PackedFont) DrawRune(dr Drawable, x, y int, c rune, clr color.Color) bool {
	i, ok := p.Index(c)
	if !ok {
		return false
	}
	l := p.Layout.bits()
	g := p.Glyph(i)
	for yy := 0; yy < l.Height; yy++ {
		for xx := 0; xx < l.Width; xx++ {
			if l.At(g, xx, yy) {
				dr.Set(x+xx, y+yy, clr)
			}
		}
	}
	return true
}

// DrawString draws s starting with the top-left corner at x,y. Runes
// without a glyph leave an empty cell. It returns the width drawn.
func (p *PackedFont) DrawString(dr Drawable, x, y int, s string, clr color.Color) int {
	x0 := x
	for _, c := range s {
		p.DrawRune(dr, x, y, c, clr)
		x += p.Layout.GlyphWidth
	}
	return x - x0
}

// MeasureString returns the width in pixels of s.
func (p *PackedFont) MeasureString(s string) int {
	n := 0
	for range s {
		n++
	}
	return n * p.Layout.GlyphWidth
}

///////

// StringDrawable implements Drawable so that glyphs can be shown as text,
// for example in source code comments.
type StringDrawable struct {
	lines [][]byte
}

func (s *StringDrawable) Set(x, y int, c color.Color) {
	if x < 0 || y < 0 {
		return
	}
	for len(s.lines) <= y {
		s.lines = append(s.lines, nil)
	}
	if len(s.lines[y]) <= x {
		nb := make([]byte, 1+(x-len(s.lines[y])))
		s.lines[y] = append(s.lines[y], nb...)
	}
	s.lines[y][x] = 'X'
}

// String returns the current string representation of this Drawable.
func (s *StringDrawable) String() string {
	return s.PrefixString("")
}

// PrefixString returns the text representation with a prefix before each
// line.
func (s *StringDrawable) PrefixString(p string) string {
	r := ""
	for _, line := range s.lines {
		r += p + string(bytes.TrimRight(bytes.ReplaceAll(line, []byte{0}, []byte(" ")), " ")) + "\n"
	}
	return r
}

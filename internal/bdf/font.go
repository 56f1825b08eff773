// Package bdf reads fonts in the Glyph Bitmap Distribution Format.
//
// See https://adobe-type-tools.github.io/font-tech-notes/pdfs/5005.BDF_Spec.pdf
package bdf

import (
	"fmt"
	"io"
	"strings"
)

// BoundingBox gives a width and height in pixels, and the offset of the
// lower left corner from the origin. Y grows upwards, so descenders have
// a negative Y.
type BoundingBox struct {
	W, H int
	X, Y int
}

// MaxExtent bounds every size and offset of a bounding box.
const MaxExtent = 1 << 15

// Empty reports whether the box covers no pixels.
func (b BoundingBox) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// InRange reports whether the size of b is not negative and no field
// exceeds MaxExtent in magnitude.
func (b BoundingBox) InRange() bool {
	inRange := func(v int) bool { return v >= -MaxExtent && v <= MaxExtent }
	return b.W >= 0 && b.H >= 0 &&
		inRange(b.W) && inRange(b.H) && inRange(b.X) && inRange(b.Y)
}

// Union returns the smallest box containing both b and o. An empty box
// does not contribute.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	x0, y0 := min(b.X, o.X), min(b.Y, o.Y)
	x1, y1 := max(b.X+b.W, o.X+o.W), max(b.Y+b.H, o.Y+o.H)
	return BoundingBox{W: x1 - x0, H: y1 - y0, X: x0, Y: y0}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%dx%d%+d%+d", b.W, b.H, b.X, b.Y)
}

// Property is one entry of the STARTPROPERTIES section.
type Property struct {
	Name  string
	Value string
}

// Header holds the global font information which precedes the glyphs.
type Header struct {
	Version  string // "2.1"
	Comments []string
	FontName string

	PointSize   int // e.g. 8
	ResolutionX int // e.g. 75
	ResolutionY int

	BoundingBox BoundingBox
	Properties  []Property

	// NumGlyphs is the CHARS value. It is advisory only.
	NumGlyphs int
}

// Property returns the value of the named property.
func (h *Header) Property(name string) (string, bool) {
	for _, p := range h.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Glyph is a single character from a BDF file.
type Glyph struct {
	Name     string // "SPACE"
	Encoding int    // 32, never negative
	Advance  int    // DWIDTH, pixels
	Line     int    // line of STARTCHAR

	BBX BoundingBox

	// Rows holds BBX.H scanlines, each (BBX.W+7)/8 bytes long.
	// The leftmost pixel is the most significant bit of the first byte,
	// padding bits are zero.
	Rows [][]byte
}

// String draws the glyph using 'X' for set pixels.
func (g *Glyph) String() string {
	s := make([]string, 0, len(g.Rows))
	for _, row := range g.Rows {
		var b strings.Builder
		for x := 0; x < g.BBX.W; x++ {
			if row[x/8]&(0x80>>(x%8)) != 0 {
				b.WriteByte('X')
			} else {
				b.WriteByte(' ')
			}
		}
		s = append(s, fmt.Sprintf("%3d  [%s]", g.Encoding, b.String()))
	}
	return strings.Join(s, "\n")
}

// Font is the result of reading a BDF file.
type Font struct {
	Header Header
	Glyphs []*Glyph // in file order

	// Dropped lists the glyphs which were skipped because they were
	// malformed.
	Dropped []*GlyphError
}

// Parse reads and decodes a complete BDF file.
func Parse(r io.Reader) (*Font, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Collect(NewScanner(strings.NewReader(text)))
}

package oledfont

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Face makes a PackedFont usable with the golang.org/x/image/font
// package, for example to preview a converted font with font.Drawer.
type Face struct {
	f *PackedFont
}

var _ font.Face = (*Face)(nil)

// NewFace returns a font.Face which draws the glyphs of f.
func NewFace(f *PackedFont) *Face {
	return &Face{f: f}
}

func (fc *Face) Close() error { return nil }

func (fc *Face) Glyph(dot fixed.Point26_6, r rune) (
	dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {

	i, ok := fc.f.Index(r)
	if !ok {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	w, h := fc.f.Layout.GlyphWidth, fc.f.Layout.GlyphHeight
	alpha := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if fc.f.Pixel(i, x, y) {
				alpha.Pix[y*alpha.Stride+x] = 0xff
			}
		}
	}

	x0 := dot.X.Floor()
	y0 := dot.Y.Floor() - fc.f.Ascent
	dr = image.Rect(x0, y0, x0+w, y0+h)
	return dr, alpha, image.Point{}, fixed.I(w), true
}

func (fc *Face) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	if _, ok := fc.f.Index(r); !ok {
		return fixed.Rectangle26_6{}, 0, false
	}
	w, h := fc.f.Layout.GlyphWidth, fc.f.Layout.GlyphHeight
	return fixed.R(0, -fc.f.Ascent, w, h-fc.f.Ascent), fixed.I(w), true
}

func (fc *Face) GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool) {
	if _, ok := fc.f.Index(r); !ok {
		return 0, false
	}
	return fixed.I(fc.f.Layout.GlyphWidth), true
}

func (fc *Face) Kern(r0, r1 rune) fixed.Int26_6 { return 0 }

func (fc *Face) Metrics() font.Metrics {
	h := fc.f.Layout.GlyphHeight
	return font.Metrics{
		Height:  fixed.I(h),
		Ascent:  fixed.I(fc.f.Ascent),
		Descent: fixed.I(h - fc.f.Ascent),
	}
}

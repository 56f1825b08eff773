// Package bitmap holds the bit-level glyph operations: placing a glyph in
// the font cell, normalizing its height, and the geometric transforms
// which produce the packed byte layout used by displays.
package bitmap

import (
	"strings"

	"github.com/pbnjay/oledfont/internal/bdf"
)

// Bitmap is a monochrome image, stored row by row. Within a row the
// leftmost pixel is the most significant bit of the first byte.
type Bitmap struct {
	Width, Height int
	Stride        int // bytes per row
	Pix           []byte
}

// New returns an empty bitmap of the given size.
func New(w, h int) *Bitmap {
	stride := (w + 7) / 8
	return &Bitmap{
		Width:  w,
		Height: h,
		Stride: stride,
		Pix:    make([]byte, stride*h),
	}
}

// FromRows builds a bitmap from BDF scanlines of (w+7)/8 bytes each.
func FromRows(w int, rows [][]byte) *Bitmap {
	b := New(w, len(rows))
	for y, row := range rows {
		copy(b.Pix[y*b.Stride:(y+1)*b.Stride], row)
	}
	return b
}

func (b *Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Pix[y*b.Stride+x/8]&(0x80>>(x%8)) != 0
}

func (b *Bitmap) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	mask := byte(0x80 >> (x % 8))
	if on {
		b.Pix[y*b.Stride+x/8] |= mask
	} else {
		b.Pix[y*b.Stride+x/8] &^= mask
	}
}

// Row returns the bytes of row y. The slice aliases the bitmap.
func (b *Bitmap) Row(y int) []byte {
	return b.Pix[y*b.Stride : (y+1)*b.Stride]
}

// Bytes returns a copy of the pixel data.
func (b *Bitmap) Bytes() []byte {
	return append([]byte(nil), b.Pix...)
}

func (b *Bitmap) String() string {
	var s strings.Builder
	for y := 0; y < b.Height; y++ {
		s.WriteByte('[')
		for x := 0; x < b.Width; x++ {
			if b.At(x, y) {
				s.WriteByte('X')
			} else {
				s.WriteByte(' ')
			}
		}
		s.WriteString("]\n")
	}
	return s.String()
}

// Place draws a glyph into an empty bitmap the size of the font cell.
// Both boxes are in BDF coordinates (origin at the baseline, y up);
// pixels which fall outside the cell are clipped.
func Place(g *bdf.Glyph, cell bdf.BoundingBox) *Bitmap {
	src := FromRows(g.BBX.W, g.Rows)
	dst := New(cell.W, cell.H)
	left := g.BBX.X - cell.X
	top := (cell.Y + cell.H) - (g.BBX.Y + g.BBX.H)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			if src.At(x, y) {
				dst.Set(left+x, top+y, true)
			}
		}
	}
	return dst
}

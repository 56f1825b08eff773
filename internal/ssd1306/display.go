// Package ssd1306 simulates the memory of a 128x64 SSD1306 OLED display,
// so that converted fonts can be previewed without the hardware.
//
// The display RAM is organised in 8 pages of 128 columns. Each column of
// a page is one byte covering 8 pixel rows, with the top row in bit 0.
package ssd1306

import (
	"bufio"
	"image/color"
	"io"

	"github.com/pbnjay/oledfont"
)

const (
	Width  = 128
	Height = 64
	Pages  = Height / 8
)

// Orientation selects how the panel is mounted.
type Orientation int

const (
	Normal Orientation = iota
	UpsideDown
)

// Attr changes how text is drawn. Attributes can be combined.
type Attr int

const (
	Reverse Attr = 1 << iota
	Underline
	Overline
)

// Display is the simulated panel.
type Display struct {
	ram         [Pages][Width]byte
	orientation Orientation
	font        *oledfont.PackedFont
}

// New returns a blank display.
func New(o Orientation) *Display {
	return &Display{orientation: o}
}

// Fill sets every byte of the display RAM to v.
func (d *Display) Fill(v byte) {
	for p := range d.ram {
		for x := range d.ram[p] {
			d.ram[p][x] = v
		}
	}
}

// SetUserFont selects the font used by PutString.
func (d *Display) SetUserFont(f *oledfont.PackedFont) {
	d.font = f
}

// Set implements oledfont.Drawable. A nil color, or any color other than
// black, switches the pixel on.
func (d *Display) Set(x, y int, c color.Color) {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return
	}
	on := true
	if c != nil {
		r, g, b, _ := c.RGBA()
		on = r|g|b != 0
	}
	if on {
		d.ram[y/8][x] |= 1 << (y % 8)
	} else {
		d.ram[y/8][x] &^= 1 << (y % 8)
	}
}

// Pixel reports whether the pixel at (x, y) is lit, as seen by a viewer.
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return false
	}
	if d.orientation == UpsideDown {
		x, y = Width-1-x, Height-1-y
	}
	return d.ram[y/8][x]&(1<<(y%8)) != 0
}

// Buffer returns a copy of the display RAM, page by page.
func (d *Display) Buffer() []byte {
	buf := make([]byte, 0, Pages*Width)
	for p := range d.ram {
		buf = append(buf, d.ram[p][:]...)
	}
	return buf
}

// glyphPages is the number of pages one line of text occupies.
func (d *Display) glyphPages() int {
	return (d.font.Layout.GlyphHeight + 7) / 8
}

// PutString draws s on the given page, starting at column col. A negative
// col centers the text. Runes missing from the font leave a blank cell.
// It returns the width of the text in pixels.
func (d *Display) PutString(page, col int, s string, attr Attr) int {
	if d.font == nil {
		return 0
	}
	w := d.font.MeasureString(s)
	if col < 0 {
		col = max((Width-w)/2, 0)
	}
	top := page * 8
	h := d.glyphPages() * 8

	var ink color.Color = color.White
	if attr&Reverse != 0 {
		d.fillRect(col, top, w, h, color.White)
		ink = color.Black
	}
	d.font.DrawString(d, col, top, s, ink)
	if attr&Overline != 0 {
		d.fillRect(col, top, w, 1, ink)
	}
	if attr&Underline != 0 {
		d.fillRect(col, top+h-1, w, 1, ink)
	}
	return w
}

func (d *Display) fillRect(x0, y0, w, h int, c color.Color) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			d.Set(x, y, c)
		}
	}
}

// ShowGlyphs fills the screen with glyphs of the user font, starting with
// glyph index start, and returns the index of the first glyph which did
// not fit.
func (d *Display) ShowGlyphs(start int) int {
	f := d.font
	if f == nil || start >= f.Count {
		return start
	}
	gh := min(max(d.glyphPages(), 1), Pages)
	perRow := max(Width/max(f.Layout.GlyphWidth, 1), 1)

	i := start
	for page := 0; page+gh <= Pages && i < f.Count; page += gh {
		for n := 0; n < perRow && i < f.Count; n++ {
			f.DrawRune(d, n*f.Layout.GlyphWidth, page*8, f.Codepoint(i), color.White)
			i++
		}
	}
	return i
}

// WriteText prints the screen contents using '#' for lit pixels.
func (d *Display) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	border := make([]byte, Width+2)
	for i := range border {
		border[i] = '-'
	}
	border[0], border[Width+1] = '+', '+'

	bw.Write(border)
	bw.WriteByte('\n')
	for y := 0; y < Height; y++ {
		bw.WriteByte('|')
		for x := 0; x < Width; x++ {
			if d.Pixel(x, y) {
				bw.WriteByte('#')
			} else {
				bw.WriteByte(' ')
			}
		}
		bw.WriteString("|\n")
	}
	bw.Write(border)
	bw.WriteByte('\n')
	return bw.Flush()
}

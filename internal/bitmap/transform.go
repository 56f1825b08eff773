package bitmap

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrInvalidGlyphLayout is returned when a transform cannot be applied to
// a glyph buffer.
var ErrInvalidGlyphLayout = errors.New("invalid glyph layout")

// Transforms selects the geometry transforms. They are applied in the
// order rotate, flip, drop last.
type Transforms struct {
	Rotate   bool
	Flip     bool
	DropLast bool
}

// Rotate turns the bitmap by 90 degrees: row j of the result is column j
// of b, read from the bottom up. Width and height are swapped.
//
// For a glyph 8 rows high every output row is one byte holding a pixel
// column with the top pixel in the least significant bit, which is the
// page layout of SSD1306 style controllers.
func Rotate(b *Bitmap) *Bitmap {
	out := New(b.Height, b.Width)
	for j := 0; j < b.Width; j++ {
		for i := 0; i < b.Height; i++ {
			if b.At(j, b.Height-1-i) {
				out.Set(i, j, true)
			}
		}
	}
	return out
}

// Flip reverses the bit order in every byte.
func Flip(buf []byte) []byte {
	out := make([]byte, len(buf))
	for i, c := range buf {
		out[i] = bits.Reverse8(c)
	}
	return out
}

// DropLast removes the final byte of a glyph buffer.
func DropLast(buf []byte) ([]byte, error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: no byte to drop from empty glyph", ErrInvalidGlyphLayout)
	}
	return buf[:len(buf)-1 : len(buf)-1], nil
}

// Apply runs the selected transforms on b and returns the packed bytes.
func (t Transforms) Apply(b *Bitmap) ([]byte, error) {
	if t.Rotate {
		b = Rotate(b)
	}
	buf := b.Bytes()
	if t.Flip {
		buf = Flip(buf)
	}
	if t.DropLast {
		return DropLast(buf)
	}
	return buf, nil
}

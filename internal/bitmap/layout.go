package bitmap

// Layout describes how a packed glyph buffer was produced, so that pixels
// can be read back from it. Width and Height are the size of the glyph
// before rotation.
type Layout struct {
	Width, Height int
	Transforms
}

// Size is the number of bytes of one packed glyph.
func (l Layout) Size() int {
	var n int
	if l.Rotate {
		n = l.Width * ((l.Height + 7) / 8)
	} else {
		n = l.Height * ((l.Width + 7) / 8)
	}
	if l.DropLast && n > 0 {
		n--
	}
	return n
}

// PackedWidth is the pixel width of the packed glyph rows, i.e. the glyph
// width after rotation.
func (l Layout) PackedWidth() int {
	if l.Rotate {
		return l.Height
	}
	return l.Width
}

// At reports whether pixel (x, y) of the unrotated glyph is set in buf.
// Bytes removed by DropLast read as zero.
func (l Layout) At(buf []byte, x, y int) bool {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return false
	}
	row, col, stride := y, x, (l.Width+7)/8
	if l.Rotate {
		row, col, stride = x, l.Height-1-y, (l.Height+7)/8
	}
	idx := row*stride + col/8
	if idx >= len(buf) {
		return false
	}
	mask := byte(0x80 >> (col % 8))
	if l.Flip {
		mask = 1 << (col % 8)
	}
	return buf[idx]&mask != 0
}

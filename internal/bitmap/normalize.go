package bitmap

// RowGroup is the height of one display page in pixels.
const RowGroup = 8

// Truncate selects which rows are removed when a glyph is too tall.
type Truncate int

const (
	// TruncateBottom keeps the top of the glyph, where ascenders and
	// capitals carry most detail.
	TruncateBottom Truncate = iota
	TruncateTop
)

// NormalizeOptions controls Normalize. The zero value rounds the height
// up to a multiple of 8 rows.
type NormalizeOptions struct {
	Ascender int  // blank rows added above the glyph
	Native   bool // keep the height instead of rounding up

	RowGroup     int // rows per group, 0 means RowGroup
	MaxRowGroups int // if > 0, the height is capped at MaxRowGroups*RowGroup
	Truncate     Truncate
}

// Height returns the height Normalize produces for a glyph of height h.
func (opt NormalizeOptions) Height(h int) int {
	h += max(opt.Ascender, 0)
	if opt.Native {
		return h
	}
	group := opt.RowGroup
	if group <= 0 {
		group = RowGroup
	}
	h = (h + group - 1) / group * group
	if opt.MaxRowGroups > 0 {
		h = min(h, opt.MaxRowGroups*group)
	}
	return h
}

// Normalize adjusts the height of b. Ascender blank rows go on top, the
// rows needed to reach a multiple of the row group go at the bottom.
// Horizontal pixels are never changed.
func Normalize(b *Bitmap, opt NormalizeOptions) *Bitmap {
	asc := max(opt.Ascender, 0)
	full := asc + b.Height
	h := opt.Height(b.Height)

	skip := 0 // rows of the padded glyph removed from the top
	if h < full && opt.Truncate == TruncateTop {
		skip = full - h
	}

	out := New(b.Width, h)
	for y := 0; y < h; y++ {
		src := y + skip - asc
		if src < 0 || src >= b.Height {
			continue
		}
		copy(out.Row(y), b.Row(src))
	}
	return out
}

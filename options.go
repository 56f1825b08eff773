package oledfont

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pbnjay/oledfont/internal/bdf"
	"github.com/pbnjay/oledfont/internal/bitmap"
)

// Range is an inclusive range of codepoints, always with Min <= Max.
type Range struct {
	Min, Max uint32
}

var (
	// DefaultRange is printable ASCII.
	DefaultRange = Range{Min: 32, Max: 126}

	// AllRange accepts every codepoint.
	AllRange = Range{Min: 0, Max: math.MaxUint32}
)

// NewRange returns the range between a and b, in either order.
func NewRange(a, b uint32) Range {
	if b < a {
		a, b = b, a
	}
	return Range{Min: a, Max: b}
}

// ParseRange parses "a-b", a single codepoint "a", or "all".
// Numbers are decimal, or hexadecimal with a 0x prefix.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "all" {
		return AllRange, nil
	}
	lo, hi, isPair := strings.Cut(s, "-")
	a, err := strconv.ParseUint(strings.TrimSpace(lo), 0, 32)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	b := a
	if isPair {
		b, err = strconv.ParseUint(strings.TrimSpace(hi), 0, 32)
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
		}
	}
	return NewRange(uint32(a), uint32(b)), nil
}

// Contains reports whether codepoint c lies in r.
func (r Range) Contains(c int) bool {
	return c >= 0 && uint64(c) >= uint64(r.Min) && uint64(c) <= uint64(r.Max)
}

func (r Range) String() string {
	if r == AllRange {
		return "all"
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// Truncate selects which rows are removed from glyphs which are taller
// than MaxRowGroups allows.
type Truncate = bitmap.Truncate

const (
	TruncateBottom = bitmap.TruncateBottom
	TruncateTop    = bitmap.TruncateTop
)

// Options controls a conversion. The zero value converts printable ASCII,
// rounds glyph heights up to a multiple of 8 and applies no transforms.
type Options struct {
	// Subset selects the glyphs to convert. If nil, DefaultRange is used.
	Subset *Range

	// Ascender adds blank pixel rows above every glyph.
	Ascender int

	// Native keeps the font height instead of rounding it up to
	// a multiple of 8 rows.
	Native bool

	// MaxRowGroups, if positive, limits glyphs to this many 8-row groups.
	// Excess rows are removed as selected by Truncate.
	MaxRowGroups int
	Truncate     Truncate

	// Rotate turns glyphs into column-major order, Flip reverses the bits
	// in each byte and DropLast removes the final byte of each glyph.
	Rotate   bool
	Flip     bool
	DropLast bool

	// FillGaps inserts blank glyphs for codepoints which are missing
	// between the first and the last converted glyph, so that glyph i
	// always has codepoint First+i.
	FillGaps bool
}

func (opt *Options) subset() Range {
	if opt == nil || opt.Subset == nil {
		return DefaultRange
	}
	return *opt.Subset
}

func (opt *Options) normalize() bitmap.NormalizeOptions {
	if opt == nil {
		return bitmap.NormalizeOptions{}
	}
	return bitmap.NormalizeOptions{
		Ascender:     min(max(opt.Ascender, 0), bdf.MaxExtent),
		Native:       opt.Native,
		MaxRowGroups: opt.MaxRowGroups,
		Truncate:     opt.Truncate,
	}
}

func (opt *Options) transforms() bitmap.Transforms {
	if opt == nil {
		return bitmap.Transforms{}
	}
	return bitmap.Transforms{
		Rotate:   opt.Rotate,
		Flip:     opt.Flip,
		DropLast: opt.DropLast,
	}
}

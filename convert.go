package oledfont

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/pbnjay/oledfont/internal/bdf"
	"github.com/pbnjay/oledfont/internal/bitmap"
)

// ConvertFile reads the named BDF file and converts it.
func ConvertFile(name string, opt *Options) (*PackedFont, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Convert(f, opt)
}

// Convert reads a BDF font from r and packs the glyphs selected by opt.
//
// Glyphs which are malformed, or which cannot be transformed, are left out
// and listed in PackedFont.Dropped. The conversion fails if the input is
// not a usable BDF file (ErrMalformedInput) or if no glyphs remain
// (ErrEmptyFont).
func Convert(r io.Reader, opt *Options) (*PackedFont, error) {
	fnt, err := bdf.Parse(r)
	if err != nil {
		return nil, err
	}
	return convert(fnt, opt)
}

type packedGlyph struct {
	code rune
	data []byte
}

// maxCellPixels bounds the area of the glyph cell.
const maxCellPixels = 1 << 20

func convert(fnt *bdf.Font, opt *Options) (*PackedFont, error) {
	log := Logger()
	dropped := slices.Clone(fnt.Dropped)
	for _, gerr := range fnt.Dropped {
		logDropped(log, gerr)
	}

	cell := fnt.Header.BoundingBox
	if cell.Empty() {
		cell = bdf.BoundingBox{}
		for _, g := range fnt.Glyphs {
			cell = cell.Union(g.BBX)
		}
	}
	if !cell.InRange() || cell.W*cell.H > maxCellPixels {
		return nil, fmt.Errorf("%w: glyph cell %v too large", ErrMalformedInput, cell)
	}

	subset := opt.subset()
	norm := opt.normalize()
	tr := opt.transforms()

	var seen bitset.BitSet
	var glyphs []packedGlyph
	for _, g := range fnt.Glyphs {
		if !subset.Contains(g.Encoding) {
			continue
		}
		if seen.Test(uint(g.Encoding)) {
			gerr := &GlyphError{
				Name:      g.Name,
				Line:      g.Line,
				Codepoint: g.Encoding,
				Err:       fmt.Errorf("%w: duplicate encoding %d", ErrMalformedGlyph, g.Encoding),
			}
			logDropped(log, gerr)
			dropped = append(dropped, gerr)
			continue
		}
		seen.Set(uint(g.Encoding))

		bm := bitmap.Normalize(bitmap.Place(g, cell), norm)
		data, err := tr.Apply(bm)
		if err != nil {
			gerr := &GlyphError{Name: g.Name, Line: g.Line, Codepoint: g.Encoding, Err: err}
			logDropped(log, gerr)
			dropped = append(dropped, gerr)
			continue
		}
		glyphs = append(glyphs, packedGlyph{code: rune(g.Encoding), data: data})
	}

	if len(glyphs) == 0 {
		return nil, fmt.Errorf("%w: %d glyphs read, none in range %s", ErrEmptyFont, len(fnt.Glyphs), subset)
	}
	slices.SortFunc(glyphs, func(a, b packedGlyph) int {
		return cmp.Compare(a.code, b.code)
	})

	layout := Layout{
		GlyphWidth:  cell.W,
		GlyphHeight: norm.Height(cell.H),
		Rotated:     tr.Rotate,
		Flipped:     tr.Flip,
		DroppedLast: tr.DropLast,
	}
	ascent := norm.Ascender + cell.Y + cell.H
	if full := norm.Ascender + cell.H; layout.GlyphHeight < full && norm.Truncate == TruncateTop {
		ascent -= full - layout.GlyphHeight
	}

	pf := assemble(glyphs, layout, opt != nil && opt.FillGaps)
	pf.Ascent = ascent
	pf.Info = FontInfo{
		Name:        fnt.Header.FontName,
		PointSize:   fnt.Header.PointSize,
		ResolutionX: fnt.Header.ResolutionX,
		ResolutionY: fnt.Header.ResolutionY,
		BoundingBox: [4]int{cell.W, cell.H, cell.X, cell.Y},
		NumGlyphs:   fnt.Header.NumGlyphs,
		Subset:      subset,
		Ascender:    norm.Ascender,
	}
	pf.Info.Copyright, _ = fnt.Header.Property("COPYRIGHT")
	pf.Dropped = dropped

	log.Debug("font converted",
		slog.String("font", fnt.Header.FontName),
		slog.Int("read", len(fnt.Glyphs)),
		slog.Int("glyphs", pf.Count),
		slog.Int("dropped", len(dropped)),
		slog.Int("width", pf.Width),
		slog.Int("bytesPerGlyph", pf.BytesPerGlyph),
		slog.Int("first", int(pf.First)))
	return pf, nil
}

// assemble concatenates the sorted glyphs into one buffer.
func assemble(glyphs []packedGlyph, layout Layout, fillGaps bool) *PackedFont {
	bpg := layout.bits().Size()
	first := glyphs[0].code
	last := glyphs[len(glyphs)-1].code

	pf := &PackedFont{
		Width:         layout.bits().PackedWidth(),
		BytesPerGlyph: bpg,
		First:         first,
		Layout:        layout,
	}
	if fillGaps {
		pf.Count = int(last-first) + 1
		pf.Data = make([]byte, pf.Count*bpg)
		for _, g := range glyphs {
			copy(pf.Data[int(g.code-first)*bpg:], g.data)
		}
		return pf
	}

	pf.Count = len(glyphs)
	pf.Data = make([]byte, 0, pf.Count*bpg)
	pf.Codepoints = make([]rune, 0, pf.Count)
	for _, g := range glyphs {
		pf.Data = append(pf.Data, g.data...)
		pf.Codepoints = append(pf.Codepoints, g.code)
	}
	if int(last-first)+1 == pf.Count {
		// contiguous, First+i is enough
		pf.Codepoints = nil
	}
	return pf
}

func logDropped(log *slog.Logger, gerr *GlyphError) {
	log.Warn("glyph dropped",
		slog.String("glyph", gerr.Name),
		slog.Int("line", gerr.Line),
		slog.Int("codepoint", gerr.Codepoint),
		slog.Any("err", gerr.Err))
}

package oledfont

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// bdfGlyph returns an 8x8 glyph where only row 3 holds the given bits.
func bdfGlyph(code int, row3 byte) string {
	rows := []string{"00", "00", "00", fmt.Sprintf("%02X", row3), "00", "00", "00", "00"}
	return fmt.Sprintf("STARTCHAR g%d\nENCODING %d\nDWIDTH 8 0\nBBX 8 8 0 0\nBITMAP\n%s\nENDCHAR\n",
		code, code, strings.Join(rows, "\n"))
}

func bdfFont(glyphs ...string) string {
	return "STARTFONT 2.1\nFONT test\nSIZE 8 75 75\nFONTBOUNDINGBOX 8 8 0 0\n" +
		fmt.Sprintf("CHARS %d\n", len(glyphs)) + strings.Join(glyphs, "") + "ENDFONT\n"
}

func convertString(t *testing.T, src string, opt *Options) (*PackedFont, error) {
	t.Helper()
	return Convert(strings.NewReader(src), opt)
}

func TestConvertSingleGlyph(t *testing.T) {
	src := bdfFont(bdfGlyph(65, 0x7E))
	cases := []struct {
		name string
		opt  *Options
		want []byte
		w    int
	}{
		{"plain", nil, []byte{0, 0, 0, 0x7E, 0, 0, 0, 0}, 8},
		{"ascender", &Options{Ascender: 2},
			[]byte{0, 0, 0, 0, 0, 0x7E, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 8},
		{"native ascender", &Options{Ascender: 2, Native: true},
			[]byte{0, 0, 0, 0, 0, 0x7E, 0, 0, 0, 0}, 8},
		{"rotate", &Options{Rotate: true},
			[]byte{0, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0}, 8},
		{"rotate flip", &Options{Rotate: true, Flip: true},
			[]byte{0, 0x10, 0x10, 0x10, 0x10, 0x10, 0x10, 0}, 8},
		{"droplast", &Options{DropLast: true}, []byte{0, 0, 0, 0x7E, 0, 0, 0}, 8},
		{"rotate ascender", &Options{Rotate: true, Ascender: 2},
			[]byte{0, 0, 0, 0x20, 0, 0x20, 0, 0x20, 0, 0x20, 0, 0x20, 0, 0x20, 0, 0}, 16},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pf, err := convertString(t, src, c.opt)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(c.want, pf.Data); d != "" {
				t.Errorf("packed data differs (-want +got):\n%s", d)
			}
			if pf.Count != 1 || pf.First != 65 {
				t.Errorf("got %d glyphs from %d, want 1 from 65", pf.Count, pf.First)
			}
			if pf.BytesPerGlyph != len(c.want) {
				t.Errorf("%d bytes per glyph, want %d", pf.BytesPerGlyph, len(c.want))
			}
			if pf.Width != c.w {
				t.Errorf("glyph width %d, want %d", pf.Width, c.w)
			}
			// the bar is visible whatever the layout
			y := 3 + c.opt.ascender()
			for x := 0; x < 8; x++ {
				if want := x >= 1 && x <= 6; pf.Pixel(0, x, y) != want {
					t.Errorf("pixel (%d,%d) is %t", x, y, !want)
				}
			}
		})
	}
}

func (opt *Options) ascender() int {
	if opt == nil {
		return 0
	}
	return opt.Ascender
}

func TestConvertOrderAndDuplicates(t *testing.T) {
	src := bdfFont(
		bdfGlyph(67, 0x03),
		bdfGlyph(65, 0x01),
		bdfGlyph(20, 0xFF), // outside the default range
		bdfGlyph(66, 0x02),
		bdfGlyph(65, 0x80), // duplicate, dropped
	)
	var logBuf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&logBuf, nil)))
	t.Cleanup(func() { SetLogger(nil) })

	pf, err := convertString(t, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	if pf.Count != 3 || pf.First != 65 || pf.Codepoints != nil {
		t.Fatalf("got %d glyphs from %d (%v)", pf.Count, pf.First, pf.Codepoints)
	}
	for i, want := range []byte{0x01, 0x02, 0x03} {
		if got := pf.Glyph(i)[3]; got != want {
			t.Errorf("glyph %d has row 3 = %02x, want %02x", i, got, want)
		}
	}
	if len(pf.Dropped) != 1 || pf.Dropped[0].Codepoint != 65 || !errors.Is(pf.Dropped[0], ErrMalformedGlyph) {
		t.Errorf("wrong dropped glyphs: %v", pf.Dropped)
	}
	if !strings.Contains(logBuf.String(), "glyph dropped") {
		t.Errorf("duplicate was not logged:\n%s", logBuf.String())
	}
}

func TestConvertSubset(t *testing.T) {
	src := bdfFont(bdfGlyph(65, 1), bdfGlyph(66, 2), bdfGlyph(67, 3))

	r := NewRange(66, 65)
	pf, err := convertString(t, src, &Options{Subset: &r})
	if err != nil {
		t.Fatal(err)
	}
	if pf.Count != 2 || pf.First != 65 || len(pf.Data) != 16 {
		t.Errorf("got %d glyphs from %d, %d bytes", pf.Count, pf.First, len(pf.Data))
	}

	outside := NewRange(100, 200)
	_, err = convertString(t, src, &Options{Subset: &outside})
	if !errors.Is(err, ErrEmptyFont) {
		t.Errorf("expected ErrEmptyFont, got %v", err)
	}
}

func TestConvertEmpty(t *testing.T) {
	all := AllRange
	_, err := convertString(t, bdfFont(), &Options{Subset: &all})
	if !errors.Is(err, ErrEmptyFont) {
		t.Errorf("expected ErrEmptyFont, got %v", err)
	}
}

func TestConvertMalformed(t *testing.T) {
	src := strings.TrimSuffix(bdfFont(bdfGlyph(65, 1)), "ENDCHAR\nENDFONT\n")
	pf, err := convertString(t, src, nil)
	if !errors.Is(err, ErrMalformedInput) || pf != nil {
		t.Errorf("expected ErrMalformedInput and no font, got %v, %v", pf, err)
	}
}

func TestConvertCellOutOfRange(t *testing.T) {
	glyph := func(name string, code int, bbx string) string {
		return fmt.Sprintf("STARTCHAR %s\nENCODING %d\nBBX %s\nBITMAP\nFF\nENDCHAR\n", name, code, bbx)
	}
	cases := []struct {
		name string
		src  string
	}{
		{"font bounding box", "STARTFONT 2.1\nFONTBOUNDINGBOX 3000000000 3000000000 0 0\nCHARS 1\n" +
			glyph("A", 65, "8 1 0 0") + "ENDFONT\n"},
		{"glyph union", "STARTFONT 2.1\nCHARS 2\n" +
			glyph("A", 65, "8 1 -32768 0") + glyph("B", 66, "8 1 32000 0") + "ENDFONT\n"},
		{"cell area", "STARTFONT 2.1\nFONTBOUNDINGBOX 32768 32768 0 0\nCHARS 1\n" +
			glyph("A", 65, "8 1 0 0") + "ENDFONT\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pf, err := convertString(t, c.src, nil)
			if !errors.Is(err, ErrMalformedInput) || pf != nil {
				t.Errorf("expected ErrMalformedInput and no font, got %v, %v", pf, err)
			}
		})
	}
}

func TestConvertDropsHugeGlyphOffset(t *testing.T) {
	src := "STARTFONT 2.1\nCHARS 2\n" +
		"STARTCHAR A\nENCODING 65\nBBX 8 1 0 0\nBITMAP\nFF\nENDCHAR\n" +
		"STARTCHAR B\nENCODING 66\nBBX 8 1 -9223372036854775808 0\nBITMAP\nFF\nENDCHAR\n" +
		"ENDFONT\n"
	pf, err := convertString(t, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	if pf.Count != 1 || pf.Width != 8 {
		t.Errorf("got %d glyphs of width %d, want 1 of width 8", pf.Count, pf.Width)
	}
	if len(pf.Dropped) != 1 || !errors.Is(pf.Dropped[0], ErrMalformedGlyph) {
		t.Errorf("expected one dropped malformed glyph, got %v", pf.Dropped)
	}
}

func TestConvertNegativeAscender(t *testing.T) {
	src := bdfFont(bdfGlyph(65, 0x7E))
	plain, err := convertString(t, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	neg, err := convertString(t, src, &Options{Ascender: -3})
	if err != nil {
		t.Fatal(err)
	}
	if neg.Ascent != plain.Ascent || neg.Ascent != 8 {
		t.Errorf("ascent is %d, want %d", neg.Ascent, plain.Ascent)
	}
	if neg.Info.Ascender != 0 {
		t.Errorf("ascender is %d, want 0", neg.Info.Ascender)
	}
	if diff := cmp.Diff(plain.Data, neg.Data); diff != "" {
		t.Errorf("data differs (-want +got):\n%s", diff)
	}
}

func TestConvertDropLastEmptyGlyph(t *testing.T) {
	src := "STARTFONT 2.1\nCHARS 1\n" +
		"STARTCHAR space\nENCODING 32\nBBX 0 0 0 0\nBITMAP\nENDCHAR\nENDFONT\n"
	_, err := convertString(t, src, &Options{Native: true, DropLast: true})
	if !errors.Is(err, ErrEmptyFont) {
		t.Errorf("expected ErrEmptyFont, got %v", err)
	}

	// without droplast the empty glyph is fine
	pf, err := convertString(t, src, &Options{Native: true})
	if err != nil {
		t.Fatal(err)
	}
	if pf.Count != 1 || pf.BytesPerGlyph != 0 {
		t.Errorf("got %d glyphs of %d bytes", pf.Count, pf.BytesPerGlyph)
	}
}

func TestConvertGaps(t *testing.T) {
	src := bdfFont(bdfGlyph(65, 1), bdfGlyph(67, 3))

	pf, err := convertString(t, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]rune{65, 67}, pf.Codepoints); d != "" {
		t.Errorf("codepoints differ (-want +got):\n%s", d)
	}
	if i, ok := pf.Index('C'); !ok || i != 1 || pf.Codepoint(i) != 'C' {
		t.Errorf("Index('C') = %d, %t", i, ok)
	}
	if _, ok := pf.Index('B'); ok {
		t.Errorf("found glyph for missing 'B'")
	}

	pf, err = convertString(t, src, &Options{FillGaps: true})
	if err != nil {
		t.Fatal(err)
	}
	if pf.Count != 3 || pf.Codepoints != nil {
		t.Fatalf("got %d glyphs, codepoints %v", pf.Count, pf.Codepoints)
	}
	if d := cmp.Diff(make([]byte, 8), pf.Glyph(1)); d != "" {
		t.Errorf("gap glyph is not blank:\n%s", d)
	}
	if pf.Glyph(2)[3] != 3 {
		t.Errorf("wrong glyph after gap: % x", pf.Glyph(2))
	}
}

func TestConvertCellPlacement(t *testing.T) {
	// no FONTBOUNDINGBOX: the cell is the union of the glyph boxes
	src := "STARTFONT 2.1\nCHARS 2\n" +
		"STARTCHAR period\nENCODING 46\nBBX 2 2 1 0\nBITMAP\nC0\nC0\nENDCHAR\n" +
		"STARTCHAR bar\nENCODING 124\nBBX 1 9 0 -2\nBITMAP\n80\n80\n80\n80\n80\n80\n80\n80\n80\nENDCHAR\n" +
		"ENDFONT\n"
	pf, err := convertString(t, src, &Options{Native: true})
	if err != nil {
		t.Fatal(err)
	}
	if pf.Layout.GlyphWidth != 3 || pf.Layout.GlyphHeight != 9 || pf.Ascent != 7 {
		t.Fatalf("layout %+v, ascent %d", pf.Layout, pf.Ascent)
	}
	var sd StringDrawable
	pf.DrawString(&sd, 0, 0, ".|", nil)
	want := strings.Join([]string{
		"   X",
		"   X",
		"   X",
		"   X",
		"   X",
		" XXX",
		" XXX",
		"   X",
		"   X",
	}, "\n") + "\n"
	if d := cmp.Diff(want, sd.String()); d != "" {
		t.Errorf("drawing differs (-want +got):\n%s", d)
	}
}

func TestParseRange(t *testing.T) {
	cases := []struct {
		in   string
		want Range
	}{
		{"65-66", Range{65, 66}},
		{"66-65", Range{65, 66}},
		{"48", Range{48, 48}},
		{"0x20-0x7e", Range{32, 126}},
		{"all", AllRange},
	}
	for _, c := range cases {
		got, err := ParseRange(c.in)
		if err != nil {
			t.Errorf("%q: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("%q: got %v, want %v", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "a-b", "1-", "-5", "99999999999"} {
		if _, err := ParseRange(bad); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func TestRangeContains(t *testing.T) {
	r := NewRange(32, 126)
	for c, want := range map[int]bool{31: false, 32: true, 65: true, 126: true, 127: false, -1: false} {
		if r.Contains(c) != want {
			t.Errorf("Contains(%d) = %t", c, !want)
		}
	}
	if !AllRange.Contains(0) || !AllRange.Contains(0x10FFFF) {
		t.Errorf("AllRange is incomplete")
	}
}

package bitmap

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pbnjay/oledfont/internal/bdf"
)

// glyphA is 8x8 with only row 3 set.
func glyphA() *Bitmap {
	return FromRows(8, [][]byte{{0}, {0}, {0}, {0x7E}, {0}, {0}, {0}, {0}})
}

func randomBitmap(rng *rand.Rand, w, h int) *Bitmap {
	b := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Set(x, y, rng.Intn(2) == 1)
		}
	}
	return b
}

func TestPlace(t *testing.T) {
	g := &bdf.Glyph{
		BBX:  bdf.BoundingBox{W: 5, H: 2, X: 1, Y: 0},
		Rows: [][]byte{{0xF8}, {0x88}},
	}
	cell := bdf.BoundingBox{W: 8, H: 8, X: 0, Y: -1}
	got := Place(g, cell).Pix
	want := []byte{0, 0, 0, 0, 0, 0x7C, 0x44, 0}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("placed glyph differs (-want +got):\n%s", d)
	}
}

func TestPlaceClips(t *testing.T) {
	g := &bdf.Glyph{
		BBX:  bdf.BoundingBox{W: 8, H: 3, X: 4, Y: 6},
		Rows: [][]byte{{0xFF}, {0xFF}, {0xFF}},
	}
	cell := bdf.BoundingBox{W: 8, H: 8, X: 0, Y: 0}
	got := Place(g, cell).Pix
	want := []byte{0x0F, 0x0F, 0, 0, 0, 0, 0, 0}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("clipped glyph differs (-want +got):\n%s", d)
	}
}

func TestNormalize(t *testing.T) {
	a := glyphA().Pix
	zero := make([]byte, 8)
	cases := []struct {
		opt  NormalizeOptions
		in   *Bitmap
		want []byte
	}{
		{
			// multiple of 8, no ascender: unchanged
			opt:  NormalizeOptions{},
			in:   glyphA(),
			want: a,
		},
		{
			// 2 blank rows on top, 6 at the bottom
			opt:  NormalizeOptions{Ascender: 2},
			in:   glyphA(),
			want: concat([]byte{0, 0}, a, []byte{0, 0, 0, 0, 0, 0}),
		},
		{
			opt:  NormalizeOptions{Ascender: 2, Native: true},
			in:   glyphA(),
			want: concat([]byte{0, 0}, a),
		},
		{
			opt:  NormalizeOptions{},
			in:   FromRows(8, [][]byte{{1}, {2}, {3}, {4}, {5}}),
			want: []byte{1, 2, 3, 4, 5, 0, 0, 0},
		},
		{
			opt:  NormalizeOptions{Native: true},
			in:   FromRows(8, [][]byte{{1}, {2}, {3}, {4}, {5}}),
			want: []byte{1, 2, 3, 4, 5},
		},
		{
			opt:  NormalizeOptions{Ascender: 3, MaxRowGroups: 1},
			in:   FromRows(8, [][]byte{{1}, {2}, {3}, {4}, {5}, {6}, {7}}),
			want: []byte{0, 0, 0, 1, 2, 3, 4, 5},
		},
		{
			opt:  NormalizeOptions{Ascender: 3, MaxRowGroups: 1, Truncate: TruncateTop},
			in:   FromRows(8, [][]byte{{1}, {2}, {3}, {4}, {5}, {6}, {7}}),
			want: []byte{0, 1, 2, 3, 4, 5, 6, 7},
		},
		{
			opt:  NormalizeOptions{RowGroup: 4},
			in:   FromRows(8, [][]byte{{1}, {2}, {3}, {4}, {5}}),
			want: []byte{1, 2, 3, 4, 5, 0, 0, 0},
		},
		{
			opt:  NormalizeOptions{},
			in:   New(8, 0),
			want: zero[:0],
		},
	}
	for i, c := range cases {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			out := Normalize(c.in, c.opt)
			if out.Height != c.opt.Height(c.in.Height) {
				t.Errorf("height %d, Height() says %d", out.Height, c.opt.Height(c.in.Height))
			}
			if d := cmp.Diff(c.want, out.Pix); d != "" {
				t.Errorf("normalized glyph differs (-want +got):\n%s", d)
			}
		})
	}
}

func TestRotate(t *testing.T) {
	// a single pixel in the top left corner of a 3x2 bitmap
	b := New(3, 2)
	b.Set(0, 0, true)
	r := Rotate(b)
	if r.Width != 2 || r.Height != 3 {
		t.Fatalf("rotated size %dx%d, want 2x3", r.Width, r.Height)
	}
	// column 0 read bottom-to-top ends in the set pixel
	if !r.At(1, 0) {
		t.Errorf("rotated bitmap:\n%s", r)
	}

	// for 8 rows, each output byte is a pixel column with the top pixel
	// in bit 0
	got := Rotate(glyphA()).Pix
	want := []byte{0, 0x08, 0x08, 0x08, 0x08, 0x08, 0x08, 0}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("rotated glyph differs (-want +got):\n%s", d)
	}
}

func TestRotateFourTimes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, size := range [][2]int{{8, 8}, {5, 7}, {12, 16}, {1, 9}, {0, 3}} {
		b := randomBitmap(rng, size[0], size[1])
		r := b
		for i := 0; i < 4; i++ {
			r = Rotate(r)
		}
		if d := cmp.Diff(b, r); d != "" {
			t.Errorf("%dx%d: four rotations changed the bitmap:\n%s", size[0], size[1], d)
		}
	}
}

func TestFlip(t *testing.T) {
	buf := []byte{0x01, 0x80, 0x7E, 0xF0, 0x35}
	flipped := Flip(buf)
	if d := cmp.Diff([]byte{0x80, 0x01, 0x7E, 0x0F, 0xAC}, flipped); d != "" {
		t.Errorf("flip differs (-want +got):\n%s", d)
	}
	if d := cmp.Diff(buf, Flip(flipped)); d != "" {
		t.Errorf("flip is not self-inverse:\n%s", d)
	}
}

func TestDropLast(t *testing.T) {
	buf, err := DropLast([]byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{1, 2}, buf); d != "" {
		t.Errorf("droplast differs (-want +got):\n%s", d)
	}
	_, err = DropLast(nil)
	if !errors.Is(err, ErrInvalidGlyphLayout) {
		t.Errorf("expected ErrInvalidGlyphLayout, got %v", err)
	}
}

func TestTransformsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	b := randomBitmap(rng, 6, 13)
	for _, tr := range allTransforms() {
		first, err := tr.Apply(b)
		if err != nil {
			t.Fatal(err)
		}
		second, _ := tr.Apply(b)
		if d := cmp.Diff(first, second); d != "" {
			t.Errorf("%+v: output differs between runs", tr)
		}
	}
}

// TestLayoutAt checks that every transform combination can be read back.
func TestLayoutAt(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, size := range [][2]int{{8, 8}, {5, 16}, {10, 7}} {
		b := randomBitmap(rng, size[0], size[1])
		// the last packed byte must be zero for DropLast to be lossless
		for x := 0; x < b.Width; x++ {
			b.Set(x, b.Height-1, false)
		}
		for y := 0; y < b.Height; y++ {
			b.Set(b.Width-1, y, false)
		}
		for _, tr := range allTransforms() {
			buf, err := tr.Apply(b)
			if err != nil {
				t.Fatal(err)
			}
			l := Layout{Width: b.Width, Height: b.Height, Transforms: tr}
			if len(buf) != l.Size() {
				t.Errorf("%v %+v: %d bytes, Size() says %d", size, tr, len(buf), l.Size())
			}
			for y := 0; y < b.Height; y++ {
				for x := 0; x < b.Width; x++ {
					if l.At(buf, x, y) != b.At(x, y) {
						t.Fatalf("%v %+v: pixel (%d,%d) differs", size, tr, x, y)
					}
				}
			}
		}
	}
}

func allTransforms() []Transforms {
	var res []Transforms
	for i := 0; i < 8; i++ {
		res = append(res, Transforms{Rotate: i&1 != 0, Flip: i&2 != 0, DropLast: i&4 != 0})
	}
	return res
}

func concat(parts ...[]byte) []byte {
	var res []byte
	for _, p := range parts {
		res = append(res, p...)
	}
	return res
}

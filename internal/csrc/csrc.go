// Package csrc writes converted fonts as source code, either as C arrays
// for firmware or as a Go file.
package csrc

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pbnjay/oledfont"
)

// Style controls the C output.
type Style struct {
	Name   string // identifier prefix, see Ident
	Source string // input file name, for the header

	Header  bool // comment block describing the font
	Verbose bool // more details in the header, glyph pictures in the data
	Line    bool // one glyph per line
}

// Ident turns s into a C and Go identifier.
func Ident(s string) string {
	var b strings.Builder
	for i, c := range s {
		switch {
		case c < 128 && (unicode.IsLetter(c) || c == '_'):
			b.WriteRune(c)
		case c < 128 && unicode.IsDigit(c):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "font"
	}
	return b.String()
}

// WriteC writes f as a C byte array, preceded by #defines for the glyph
// geometry.
func WriteC(w io.Writer, f *oledfont.PackedFont, s Style) error {
	bw := bufio.NewWriter(w)
	name := Ident(s.Name)
	upper := strings.ToUpper(name)

	if s.Header || s.Verbose {
		writeHeader(bw, f, s)
	}

	fmt.Fprintf(bw, "#define %s_WIDTH %d\n", upper, f.Width)
	fmt.Fprintf(bw, "#define %s_BYTES_PER_GLYPH %d\n", upper, f.BytesPerGlyph)
	fmt.Fprintf(bw, "#define %s_FIRST %d\n", upper, f.First)
	fmt.Fprintf(bw, "#define %s_COUNT %d\n\n", upper, f.Count)
	fmt.Fprintf(bw, "const uint8_t %s[%d] = {\n", name, len(f.Data))

	for i := 0; i < f.Count; i++ {
		g := f.Glyph(i)
		label := glyphLabel(f.Codepoint(i))
		if s.Line {
			fmt.Fprintf(bw, "\t%s // %s\n", hexBytes(g), label)
			continue
		}
		fmt.Fprintf(bw, "\t// %s\n", label)
		if s.Verbose {
			for _, row := range glyphPicture(f, i) {
				fmt.Fprintf(bw, "\t// |%s|\n", row)
			}
		}
		stride := (f.Width + 7) / 8
		if stride == 0 {
			continue
		}
		for len(g) > 0 {
			n := min(stride, len(g))
			fmt.Fprintf(bw, "\t%s // %s\n", hexBytes(g[:n]), bitString(g[:n], f.Width))
			g = g[n:]
		}
	}
	bw.WriteString("};\n")
	return bw.Flush()
}

func writeHeader(w io.Writer, f *oledfont.PackedFont, s Style) {
	info := &f.Info
	fmt.Fprintln(w, "/*")
	if s.Source != "" {
		fmt.Fprintf(w, " * Converted from %s\n", s.Source)
	}
	if info.Name != "" {
		fmt.Fprintf(w, " * Font: %s\n", commentSafe(info.Name))
	}
	if info.Copyright != "" {
		fmt.Fprintf(w, " * Copyright: %s\n", commentSafe(info.Copyright))
	}
	fmt.Fprintf(w, " * Glyphs: %d, first %d, %dx%d pixels, %d bytes each\n",
		f.Count, f.First, f.Layout.GlyphWidth, f.Layout.GlyphHeight, f.BytesPerGlyph)

	var layout []string
	if f.Layout.Rotated {
		layout = append(layout, "rotated")
	}
	if f.Layout.Flipped {
		layout = append(layout, "flipped")
	}
	if f.Layout.DroppedLast {
		layout = append(layout, "last byte dropped")
	}
	if len(layout) > 0 {
		fmt.Fprintf(w, " * Layout: %s\n", strings.Join(layout, ", "))
	}

	if s.Verbose {
		if info.PointSize > 0 {
			fmt.Fprintf(w, " * Size: %dpt at %dx%d dpi\n", info.PointSize, info.ResolutionX, info.ResolutionY)
		}
		bb := info.BoundingBox
		fmt.Fprintf(w, " * Bounding box: %dx%d%+d%+d, ascent %d, ascender %d\n",
			bb[0], bb[1], bb[2], bb[3], f.Ascent, info.Ascender)
		fmt.Fprintf(w, " * Subset: %s, %d glyphs declared\n", info.Subset, info.NumGlyphs)
		if f.Codepoints != nil {
			fmt.Fprintf(w, " * Codepoints: %s\n", codepointList(f.Codepoints))
		}
		for _, gerr := range f.Dropped {
			fmt.Fprintf(w, " * Dropped: %s\n", commentSafe(gerr.Error()))
		}
	}
	fmt.Fprintln(w, " */")
	fmt.Fprintln(w)
}

func glyphLabel(r rune) string {
	if r > ' ' && r < 127 && r != '\\' {
		return fmt.Sprintf("%d '%c'", r, r)
	}
	return fmt.Sprintf("%d", r)
}

func glyphPicture(f *oledfont.PackedFont, i int) []string {
	rows := make([]string, f.Layout.GlyphHeight)
	line := make([]byte, f.Layout.GlyphWidth)
	for y := range rows {
		for x := range line {
			line[x] = ' '
			if f.Pixel(i, x, y) {
				line[x] = '#'
			}
		}
		rows[y] = string(line)
	}
	return rows
}

func hexBytes(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		fmt.Fprintf(&sb, "0x%02X,", c)
	}
	return sb.String()
}

func bitString(b []byte, width int) string {
	var sb strings.Builder
	for x := 0; x < width && x/8 < len(b); x++ {
		if b[x/8]&(0x80>>(x%8)) != 0 {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// codepointList formats sorted codepoints as "32-126,160,162-164".
func codepointList(cps []rune) string {
	var parts []string
	for i := 0; i < len(cps); {
		j := i
		for j+1 < len(cps) && cps[j+1] == cps[j]+1 {
			j++
		}
		if i == j {
			parts = append(parts, fmt.Sprint(cps[i]))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", cps[i], cps[j]))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}

func commentSafe(s string) string {
	return strings.ReplaceAll(s, "*/", "* /")
}

// Command bdfe converts a BDF font into a packed bitmap font for small
// monochrome displays and prints it as C (or Go) source.
//
// Only the glyphs in the selected subset are converted. By default glyph
// heights are rounded up to a multiple of 8 pixels, which is what page
// addressed controllers such as the SSD1306 expect; -rotate (and
// possibly -flip) changes the byte order to the column layout these
// controllers use.
//
//	bdfe -header -subset 32-127 -rotate font.bdf > font.h
//
// With -display the converted font is shown on a simulated 128x64 OLED
// screen, one screen at a time.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pbnjay/oledfont"
	"github.com/pbnjay/oledfont/internal/csrc"
	"github.com/pbnjay/oledfont/internal/ssd1306"
)

var (
	header   = flag.Bool("header", false, "print file header")
	verbose  = flag.Bool("verbose", false, "add extra info to the header and glyph pictures")
	line     = flag.Bool("line", false, "one line per glyph")
	subset   = flag.String("subset", "32-126", "subset of glyphs to convert, `a-b`")
	all      = flag.Bool("all", false, "convert all glyphs, not just the subset")
	native   = flag.Bool("native", false, "do not adjust font height to a multiple of 8 pixels")
	ascender = flag.Int("ascender", 0, "add an extra ascender of `H` pixels per glyph")
	rotate   = flag.Bool("rotate", false, "rotate glyph bitmaps into column order")
	flip     = flag.Bool("flip", false, "reverse bit order (used with -rotate)")
	droplast = flag.Bool("droplast", false, "leave off the last byte of each glyph")
	maxRows  = flag.Int("maxrows", 0, "limit glyph height to `N` groups of 8 rows")
	truncTop = flag.Bool("truncate-top", false, "with -maxrows, remove excess rows from the top")
	fillGaps = flag.Bool("fill", false, "insert blank glyphs for missing codepoints")

	name    = flag.String("name", "", "`identifier` of the generated array (default: file name)")
	format  = flag.String("format", "c", "output format, c or go")
	pkg     = flag.String("pkg", "fonts", "package name for -format go")
	outName = flag.String("o", "", "output `file` (default: standard output)")

	display  = flag.Bool("display", false, "show the converted font on a simulated SSD1306 display")
	updown   = flag.Bool("updown", false, "display orientation is upside down")
	logLevel = flag.String("log", "warn", "log `level`: debug, info, warn or error")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [options] <bdf file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	file := flag.Arg(0)

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	oledfont.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opt, err := options()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	pf, err := oledfont.ConvertFile(file, opt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to convert '%s': %v\n", file, err)
		os.Exit(1)
	}

	if !*display || *outName != "" {
		if err := writeSource(pf, file); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	if *display {
		orientation := ssd1306.Normal
		if *updown {
			orientation = ssd1306.UpsideDown
		}
		if err := preview(pf, file, orientation); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func options() (*oledfont.Options, error) {
	r, err := oledfont.ParseRange(*subset)
	if err != nil {
		return nil, err
	}
	if *all {
		r = oledfont.AllRange
	}
	opt := &oledfont.Options{
		Subset:       &r,
		Ascender:     *ascender,
		Native:       *native,
		MaxRowGroups: *maxRows,
		Rotate:       *rotate,
		Flip:         *flip,
		DropLast:     *droplast,
		FillGaps:     *fillGaps,
	}
	if *truncTop {
		opt.Truncate = oledfont.TruncateTop
	}
	if opt.Ascender < 0 {
		return nil, fmt.Errorf("invalid ascender %d", opt.Ascender)
	}
	return opt, nil
}

// writeSource renders the font completely before writing anything, so
// that a failure leaves no partial output.
func writeSource(pf *oledfont.PackedFont, file string) error {
	base := filepath.Base(file)
	ident := *name
	if ident == "" {
		ident = strings.TrimSuffix(base, filepath.Ext(base))
	}

	buf := &bytes.Buffer{}
	var err error
	switch *format {
	case "c":
		err = csrc.WriteC(buf, pf, csrc.Style{
			Name:    ident,
			Source:  base,
			Header:  *header,
			Verbose: *verbose,
			Line:    *line,
		})
	case "go":
		err = csrc.WriteGo(buf, pf, *pkg, ident, base)
	default:
		err = fmt.Errorf("unknown output format %q", *format)
	}
	if err != nil {
		return err
	}

	if *outName == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(*outName, buf.Bytes(), 0644)
}

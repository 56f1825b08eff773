package bdf

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type state int

const (
	inHeader state = iota
	inProperties
	inGlyph
	inBitmap
)

func (s state) String() string {
	switch s {
	case inHeader:
		return "header"
	case inProperties:
		return "properties"
	case inGlyph:
		return "glyph"
	case inBitmap:
		return "bitmap"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// collector is the state machine behind Collect. Each state accepts
// only the records which are legal there; everything else is ignored.
type collector struct {
	font  *Font
	state state

	g         *Glyph
	hasEnc    bool
	hasBBX    bool
	hasBitmap bool
	rowBytes  int
	bad       error // first problem found in g
}

// Collect reads records from sc until the end of the input or ENDFONT.
//
// Glyphs which lack ENCODING, BBX or BITMAP, or whose bitmap is unusable,
// are dropped and listed in Font.Dropped. The returned error is non-nil
// only if the input as a whole is unusable; it then wraps
// ErrMalformedInput.
func Collect(sc *Scanner) (*Font, error) {
	c := &collector{font: &Font{}}
	for sc.Scan() {
		if c.step(sc.Record()) {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if c.state == inGlyph || c.state == inBitmap {
		return nil, &InputError{
			Line: c.g.Line,
			Err:  fmt.Errorf("%w: glyph %q has no ENDCHAR", ErrMalformedInput, c.g.Name),
		}
	}
	return c.font, nil
}

// step processes one record and reports whether ENDFONT was reached.
func (c *collector) step(rec Record) bool {
	switch c.state {
	case inHeader:
		switch rec.Keyword {
		case "STARTCHAR":
			c.begin(rec)
		case "STARTPROPERTIES":
			c.state = inProperties
		case "ENDFONT":
			return true
		default:
			if pfunc, ok := headerParsers[rec.Keyword]; ok {
				pfunc(&c.font.Header, rec)
			}
		}

	case inProperties:
		switch rec.Keyword {
		case "ENDPROPERTIES":
			c.state = inHeader
		case "STARTCHAR":
			// ENDPROPERTIES is missing; the glyphs are still usable
			c.begin(rec)
		default:
			c.font.Header.Properties = append(c.font.Header.Properties, Property{
				Name:  rec.Keyword,
				Value: unquote(rec.Raw),
			})
		}

	case inGlyph:
		switch rec.Keyword {
		case "STARTCHAR":
			c.fail(errors.New("missing ENDCHAR"))
			c.drop()
			c.begin(rec)
		case "ENDCHAR":
			c.end()
		case "BITMAP":
			c.hasBitmap = true
			c.state = inBitmap
			if !c.hasBBX {
				c.fail(errors.New("BITMAP before BBX"))
			}
		default:
			if cfunc, ok := glyphParsers[rec.Keyword]; ok {
				if err := cfunc(c, rec); err != nil {
					c.fail(fmt.Errorf("%s: %w", rec.Keyword, err))
				}
			}
		}

	case inBitmap:
		switch rec.Keyword {
		case "STARTCHAR":
			c.fail(errors.New("missing ENDCHAR"))
			c.drop()
			c.begin(rec)
		case "ENDCHAR":
			c.end()
		default:
			c.row(rec)
		}
	}
	return false
}

func (c *collector) begin(rec Record) {
	*c = collector{font: c.font, state: inGlyph}
	c.g = &Glyph{
		Name:     rec.Raw,
		Encoding: -1,
		Line:     rec.Line,
	}
}

func (c *collector) row(rec Record) {
	if c.bad != nil {
		return
	}
	if len(rec.Args) > 0 {
		c.fail(fmt.Errorf("line %d: unexpected %q in bitmap", rec.Line, rec.Keyword+" "+rec.Raw))
		return
	}
	data, err := hex.DecodeString(rec.Keyword)
	if err != nil {
		c.fail(fmt.Errorf("line %d: bad bitmap row: %w", rec.Line, err))
		return
	}
	if len(data) < c.rowBytes {
		c.fail(fmt.Errorf("line %d: bitmap row has %d bytes, want %d", rec.Line, len(data), c.rowBytes))
		return
	}
	if len(c.g.Rows) >= c.g.BBX.H {
		c.fail(fmt.Errorf("line %d: more than %d bitmap rows", rec.Line, c.g.BBX.H))
		return
	}
	data = data[:c.rowBytes]
	if pad := c.g.BBX.W % 8; pad != 0 {
		data[len(data)-1] &= 0xFF << (8 - pad)
	}
	c.g.Rows = append(c.g.Rows, data)
}

func (c *collector) end() {
	switch {
	case !c.hasEnc:
		c.fail(errors.New("missing ENCODING"))
	case !c.hasBBX:
		c.fail(errors.New("missing BBX"))
	case !c.hasBitmap:
		c.fail(errors.New("missing BITMAP"))
	case len(c.g.Rows) != c.g.BBX.H:
		c.fail(fmt.Errorf("%d bitmap rows, BBX height is %d", len(c.g.Rows), c.g.BBX.H))
	}
	if c.bad != nil {
		c.drop()
	} else {
		c.font.Glyphs = append(c.font.Glyphs, c.g)
	}
	*c = collector{font: c.font, state: inHeader}
}

func (c *collector) fail(err error) {
	if c.bad == nil {
		c.bad = err
	}
}

func (c *collector) drop() {
	c.font.Dropped = append(c.font.Dropped, &GlyphError{
		Name:      c.g.Name,
		Line:      c.g.Line,
		Codepoint: c.g.Encoding,
		Err:       fmt.Errorf("%w: %v", ErrMalformedGlyph, c.bad),
	})
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}

func atoi(args []string, n int) ([]int, error) {
	if len(args) < n {
		return nil, fmt.Errorf("need %d values, have %d", n, len(args))
	}
	res := make([]int, n)
	for i := range res {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

////////

var glyphParsers = map[string]func(*collector, Record) error{
	"ENCODING": func(c *collector, rec Record) error {
		v, err := atoi(rec.Args, 1)
		if err != nil {
			return err
		}
		code := v[0]
		if code < 0 && len(rec.Args) > 1 {
			// "ENCODING -1 n" gives a code from a non-standard encoding
			code, err = strconv.Atoi(rec.Args[1])
			if err != nil {
				return err
			}
		}
		if code < 0 {
			return errors.New("glyph is not encoded")
		}
		if code > utf8.MaxRune {
			return fmt.Errorf("encoding %d out of range", code)
		}
		c.g.Encoding = code
		c.hasEnc = true
		return nil
	},
	"DWIDTH": func(c *collector, rec Record) error {
		v, err := atoi(rec.Args, 1)
		if err != nil {
			return err
		}
		c.g.Advance = v[0]
		return nil
	},
	"BBX": func(c *collector, rec Record) error {
		// width, height, x-offset, y-offset
		v, err := atoi(rec.Args, 4)
		if err != nil {
			return err
		}
		bbx := BoundingBox{W: v[0], H: v[1], X: v[2], Y: v[3]}
		if !bbx.InRange() {
			return fmt.Errorf("bounding box %v out of range", bbx)
		}
		c.g.BBX = bbx
		c.rowBytes = (v[0] + 7) / 8
		c.hasBBX = true
		return nil
	},
}

var headerParsers = map[string]func(*Header, Record){
	"STARTFONT": func(h *Header, rec Record) {
		h.Version = rec.Raw
	},
	"COMMENT": func(h *Header, rec Record) {
		h.Comments = append(h.Comments, unquote(rec.Raw))
	},
	"FONT": func(h *Header, rec Record) {
		h.FontName = rec.Raw
	},
	"SIZE": func(h *Header, rec Record) {
		fmt.Sscanf(rec.Raw, "%d %d %d", &h.PointSize, &h.ResolutionX, &h.ResolutionY)
	},
	"FONTBOUNDINGBOX": func(h *Header, rec Record) {
		b := &h.BoundingBox
		fmt.Sscanf(rec.Raw, "%d %d %d %d", &b.W, &b.H, &b.X, &b.Y)
	},
	"CHARS": func(h *Header, rec Record) {
		fmt.Sscanf(rec.Raw, "%d", &h.NumGlyphs)
	},
}

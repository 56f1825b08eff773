package bdf

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrMalformedInput marks font text that cannot be decoded or that ends
	// in the middle of a glyph.
	ErrMalformedInput = errors.New("malformed BDF input")

	// ErrMalformedGlyph marks a single glyph that lacks required fields or
	// has unusable bitmap rows.
	ErrMalformedGlyph = errors.New("malformed glyph")
)

// InputError reports a fatal problem with the font text.
type InputError struct {
	Line int
	Err  error
}

func (err *InputError) Error() string {
	tail := ""
	if err.Line > 0 {
		tail = " (line " + strconv.Itoa(err.Line) + ")"
	}
	return err.Err.Error() + tail
}

func (err *InputError) Unwrap() error {
	return err.Err
}

// GlyphError describes a glyph which was dropped from the font.
// It never aborts a conversion.
type GlyphError struct {
	Name      string // from STARTCHAR
	Line      int    // line of the STARTCHAR record
	Codepoint int    // -1 if no usable ENCODING was seen
	Err       error
}

func (err *GlyphError) Error() string {
	name := err.Name
	if name == "" {
		name = "<unnamed>"
	}
	return "glyph " + strconv.Quote(name) + " (line " + strconv.Itoa(err.Line) + "): " + err.Err.Error()
}

func (err *GlyphError) Unwrap() error {
	return err.Err
}

func errorf(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedInput, err)
}

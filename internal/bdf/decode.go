package bdf

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// pcfMagic starts the binary Portable Compiled Format, which is often
// confused with BDF because both use the same font names.
var pcfMagic = []byte("\x01fcp")

// Decode converts raw font file bytes to UTF-8 text.
//
// A byte order mark selects UTF-8 or UTF-16. Without one, valid UTF-8 is
// returned as-is and anything else is read as ISO-8859-1, which is what
// older X11 fonts use in their COMMENT and COPYRIGHT lines.
func Decode(data []byte) (string, error) {
	if bytes.HasPrefix(data, pcfMagic) {
		return "", &InputError{Err: fmt.Errorf("%w: binary PCF font, not BDF", ErrMalformedInput)}
	}

	var fallback encoding.Encoding = charmap.ISO8859_1
	if utf8.Valid(data) {
		fallback = encoding.Nop
	}
	text, _, err := transform.Bytes(unicode.BOMOverride(fallback.NewDecoder()), data)
	if err != nil {
		return "", &InputError{Err: fmt.Errorf("%w: %v", ErrMalformedInput, err)}
	}

	line := 1
	for _, c := range text {
		switch {
		case c == '\n':
			line++
		case c == '\t' || c == '\r' || c == '\f':
		case c < 0x20 || c == 0x7f:
			return "", &InputError{
				Line: line,
				Err:  fmt.Errorf("%w: control byte 0x%02x, not a text file", ErrMalformedInput, c),
			}
		}
	}
	return string(text), nil
}

package csrc

import (
	"fmt"
	"go/format"
	"io"

	"github.com/pbnjay/oledfont"
)

const goTemplate = `
// Code generated by bdfe from %s. DO NOT EDIT.

package %s

import "github.com/pbnjay/oledfont"

%s
var %s = &oledfont.PackedFont{
	Width:         %d,
	BytesPerGlyph: %d,
	Count:         %d,
	First:         %d,
	Data:          %#v,
	Codepoints:    %#v,
	Layout:        %#v,
	Ascent:        %d,
}
`

// WriteGo writes f as a gofmt'ed Go file declaring the variable name in
// package pkg.
func WriteGo(w io.Writer, f *oledfont.PackedFont, pkg, name, source string) error {
	name = Ident(name)

	// draw a comment header using the new font
	sd := &oledfont.StringDrawable{}
	f.DrawString(sd, 0, 0, name, nil)

	code := fmt.Sprintf(goTemplate, source, Ident(pkg), sd.PrefixString("// "), name,
		f.Width, f.BytesPerGlyph, f.Count, f.First, f.Data, f.Codepoints, f.Layout, f.Ascent)
	src, err := format.Source([]byte(code))
	if err != nil {
		return fmt.Errorf("formatting generated code: %w", err)
	}
	_, err = w.Write(src)
	return err
}

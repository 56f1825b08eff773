package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/pbnjay/oledfont"
	"github.com/pbnjay/oledfont/internal/ssd1306"
)

// preview shows the font on the simulated display: first a title screen,
// then as many glyphs as fit on each screen.
func preview(pf *oledfont.PackedFont, file string, o ssd1306.Orientation) error {
	d := ssd1306.New(o)
	d.SetUserFont(pf)

	gh := (pf.Layout.GlyphHeight + 7) / 8
	d.PutString(0, -1, filepath.Base(file), ssd1306.Reverse)
	size := fmt.Sprintf("%dx%d", pf.Layout.GlyphWidth, pf.Layout.GlyphHeight)
	d.PutString(max(ssd1306.Pages-gh, 0), -1, size, ssd1306.Underline|ssd1306.Overline)
	if err := d.WriteText(os.Stdout); err != nil {
		return err
	}

	keys := &pacer{in: os.Stdin, prompt: os.Stderr}
	for next := 0; next < pf.Count; {
		if !keys.wait() {
			return nil
		}
		d.Fill(0)
		next = d.ShowGlyphs(next)
		if err := d.WriteText(os.Stdout); err != nil {
			return err
		}
	}
	return nil
}

// pacer waits for a key press between screens when the input is a
// terminal. Otherwise it does not wait.
type pacer struct {
	in     *os.File
	prompt io.Writer
}

// wait returns false if the user pressed 'q'.
func (p *pacer) wait() bool {
	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return true
	}
	fmt.Fprintln(p.prompt, "Press any key to continue, 'q' to exit")

	state, err := term.MakeRaw(fd)
	if err != nil {
		return true
	}
	defer term.Restore(fd, state)

	var key [1]byte
	n, err := p.in.Read(key[:])
	if err != nil || n == 0 {
		return false
	}
	return key[0] != 'q' && key[0] != 3 // Ctrl-C does not raise SIGINT in raw mode
}

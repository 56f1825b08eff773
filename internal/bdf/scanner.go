package bdf

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// Record is one logical line of a BDF file: a keyword and its arguments.
type Record struct {
	Line    int
	Keyword string
	Args    []string

	// Raw is the remainder of the line after the keyword, with
	// surrounding white space removed.
	Raw string
}

// Scanner splits BDF text into records, one per non-blank line.
// Like bufio.Scanner it can only be read once; create a new Scanner
// to start over.
type Scanner struct {
	s    *bufio.Scanner
	line int
	rec  Record
}

// NewScanner returns a Scanner reading from r, which must already hold
// decoded text (see Decode).
func NewScanner(r io.Reader) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), 1<<20)
	s.Split(scanLines)
	return &Scanner{s: s}
}

// Scan advances to the next record. It returns false at the end of the
// input or on a read error, which is then available from Err.
func (sc *Scanner) Scan() bool {
	for sc.s.Scan() {
		sc.line++
		text := strings.TrimSpace(sc.s.Text())
		if text == "" {
			continue
		}
		args := strings.Fields(text)
		rest := strings.TrimSpace(text[len(args[0]):])
		sc.rec = Record{
			Line:    sc.line,
			Keyword: args[0],
			Args:    args[1:],
			Raw:     rest,
		}
		return true
	}
	return false
}

// Record returns the most recent record found by Scan.
func (sc *Scanner) Record() Record {
	return sc.rec
}

// Err returns the first read error encountered, if any.
func (sc *Scanner) Err() error {
	if err := sc.s.Err(); err != nil {
		return &InputError{Line: sc.line + 1, Err: errorf(err)}
	}
	return nil
}

// scanLines is bufio.ScanLines, but also accepts a lone CR as line end.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// CR: swallow a following LF, but we need to see it first
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

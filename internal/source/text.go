package source

// text.go normalises raw upload bytes before they reach a parser.
//
// Exports from Excel and other Windows tools often start with a UTF-8 byte
// order mark and occasionally contain bytes that are not valid UTF-8 (a
// column saved as Windows-1251, say). textReader drops a leading BOM and
// replaces every invalid byte with U+FFFD so the parsers only ever see
// well-formed text.

import (
	"bufio"
	"io"
	"unicode/utf8"
)

const byteOrderMark = '\uFEFF'

type textReader struct {
	br      *bufio.Reader
	started bool
	carry   []byte // encoded rune bytes that did not fit the previous Read
	err     error  // sticky read error, returned once carry is drained
}

// newTextReader wraps r with BOM stripping and UTF-8 sanitising.
func newTextReader(r io.Reader) io.Reader {
	return &textReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader.
func (t *textReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(t.carry) > 0 {
			c := copy(p[n:], t.carry)
			t.carry = t.carry[c:]
			n += c
			continue
		}

		if t.err != nil {
			break
		}

		// Invalid bytes come back as utf8.RuneError and are re-encoded as U+FFFD.
		r, _, err := t.br.ReadRune()
		if err != nil {
			t.err = err
			break
		}
		if !t.started {
			t.started = true
			if r == byteOrderMark {
				continue
			}
		}
		var enc [utf8.UTFMax]byte
		w := utf8.EncodeRune(enc[:], r)
		c := copy(p[n:], enc[:w])
		n += c
		if c < w {
			t.carry = append(t.carry[:0], enc[c:w]...)
		}
	}
	if n > 0 {
		return n, nil
	}
	return 0, t.err
}

// readText drains r through a textReader, refusing more than limit bytes of
// input when limit is positive.
func readText(r io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		r = &limitedReader{r: r, n: limit}
	}
	return io.ReadAll(newTextReader(r))
}

// limitedReader is io.LimitReader that reports overflow instead of a silent EOF.
type limitedReader struct {
	r io.Reader
	n int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n <= 0 {
		// Probe one byte to distinguish "exactly at limit" from "over limit".
		var probe [1]byte
		if n, _ := l.r.Read(probe[:]); n > 0 {
			return 0, ErrFileTooLarge
		}
		return 0, io.EOF
	}
	if int64(len(p)) > l.n {
		p = p[:l.n]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	return n, err
}

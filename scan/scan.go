// Package scan splits input into word tokens: maximal runs of
// non-delimiter bytes, capped at the frequency map's word length bound.
package scan

import (
	"bufio"
	"io"

	"wordfreq/freqmap"
)

// DefaultDelimiters matches the historical default set. Line breaks
// split words regardless of the configured set.
const DefaultDelimiters = " ,.!?;:"

// DelimSet marks which byte values end a word.
type DelimSet [256]bool

// NewDelimSet builds a delimiter set from the bytes of delims, always
// including '\n' and '\r'.
func NewDelimSet(delims string) *DelimSet {
	var s DelimSet
	for i := 0; i < len(delims); i++ {
		s[delims[i]] = true
	}
	s['\n'] = true
	s['\r'] = true
	return &s
}

// Scanner produces a finite sequence of words from a reader. The scan
// buffer is owned by the Scanner; Word returns an owned copy. Words
// longer than freqmap.MaxWordLen keep their first MaxWordLen bytes and
// drop the rest up to the next delimiter.
type Scanner struct {
	r      *bufio.Reader
	delims *DelimSet
	buf    []byte
	err    error
}

// NewScanner returns a Scanner over r using the given delimiter set.
func NewScanner(r io.Reader, delims *DelimSet) *Scanner {
	return &Scanner{
		r:      bufio.NewReader(r),
		delims: delims,
		buf:    make([]byte, 0, freqmap.MaxWordLen),
	}
}

// Scan advances to the next word. It returns false at end of input or on
// a read error; the caller distinguishes the two via Err.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	s.buf = s.buf[:0]
	for {
		c, err := s.r.ReadByte()
		if err != nil {
			if err != io.EOF {
				s.err = err
				return false
			}
			return len(s.buf) > 0
		}
		if s.delims[c] {
			if len(s.buf) > 0 {
				return true
			}
			continue
		}
		if len(s.buf) < freqmap.MaxWordLen {
			s.buf = append(s.buf, c)
		}
	}
}

// Word returns the current word as an owned string.
func (s *Scanner) Word() string {
	return string(s.buf)
}

// Err returns the first read error other than io.EOF.
func (s *Scanner) Err() error {
	return s.err
}

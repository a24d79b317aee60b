// Package scanner implements a zero-copy, single-threaded character-level
// cursor over a source.Buffer. It never retains string copies of scanned
// text: every successful read returns a source.Range referring back into
// the buffer, and the scanner itself holds only a byte position.
package scanner

import (
	"fmt"

	"github.com/solenne-dev/ledgerfold/source"
)

// Error is a structured scanning error: what token was expected, what was
// actually found, and where. Parser errors wrap these to build a causal
// chain for diagnostics (see ledgererrors.ParseError).
type Error struct {
	Pos      source.Position
	Expected string
	Found    string
}

func (e *Error) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("%s: expected %s, found end of input", e.Pos, e.Expected)
	}
	return fmt.Sprintf("%s: expected %s, found %q", e.Pos, e.Expected, e.Found)
}

// Predicate classifies a rune as belonging (or not) to a run the scanner is
// asked to consume.
type Predicate func(rune) bool

// Scanner is a cursor over a single source.Buffer's text. It is not safe
// for concurrent use; the whole pipeline is single-threaded.
type Scanner struct {
	buf *source.Buffer
	pos int
}

// New creates a Scanner positioned at the start of buf.
func New(buf *source.Buffer) *Scanner {
	return &Scanner{buf: buf}
}

// Buffer returns the underlying source buffer.
func (s *Scanner) Buffer() *source.Buffer { return s.buf }

// Pos returns the current byte offset.
func (s *Scanner) Pos() int { return s.pos }

// SetPos resets the cursor to an arbitrary offset; used by the parser to
// backtrack after a failed optional construct.
func (s *Scanner) SetPos(pos int) { s.pos = pos }

// AtEOF reports whether the cursor has reached the end of the buffer.
func (s *Scanner) AtEOF() bool { return s.pos >= len(s.buf.Text) }

// Current returns the byte at the cursor without consuming it, or 0 at EOF.
func (s *Scanner) Current() byte {
	if s.AtEOF() {
		return 0
	}
	return s.buf.Text[s.pos]
}

// rangeFrom builds a Range from start to the current position.
func (s *Scanner) rangeFrom(start int) source.Range {
	return source.Range{Source: s.buf, Start: start, End: s.pos}
}

// ReadWhile advances the cursor while pred holds for the current byte,
// returning the (possibly empty) consumed range.
func (s *Scanner) ReadWhile(pred Predicate) source.Range {
	start := s.pos
	for !s.AtEOF() && pred(rune(s.buf.Text[s.pos])) {
		s.pos++
	}
	return s.rangeFrom(start)
}

// ReadWhile1 is ReadWhile but requires the first character to satisfy pred;
// it returns a scanner Error (not a panic) if the first character fails.
func (s *Scanner) ReadWhile1(expected string, pred Predicate) (source.Range, error) {
	if s.AtEOF() || !pred(rune(s.buf.Text[s.pos])) {
		return source.Range{}, &Error{Pos: s.buf.Position(s.pos), Expected: expected, Found: s.foundDesc()}
	}
	return s.ReadWhile(pred), nil
}

// ReadUntil advances the cursor while pred does NOT hold, the complement of
// ReadWhile.
func (s *Scanner) ReadUntil(pred Predicate) source.Range {
	return s.ReadWhile(func(r rune) bool { return !pred(r) })
}

// ReadN consumes exactly n characters satisfying pred, erroring otherwise.
func (s *Scanner) ReadN(n int, expected string, pred Predicate) (source.Range, error) {
	start := s.pos
	for i := 0; i < n; i++ {
		if s.AtEOF() || !pred(rune(s.buf.Text[s.pos])) {
			// Report the position of the byte that actually broke the run,
			// not the start of it, so diagnostics point at the exact column.
			failPos := s.buf.Position(s.pos)
			found := s.foundDesc()
			s.pos = start
			return source.Range{}, &Error{Pos: failPos, Expected: expected, Found: found}
		}
		s.pos++
	}
	return s.rangeFrom(start), nil
}

// ReadChar matches a single literal byte, erroring on mismatch or EOF.
func (s *Scanner) ReadChar(c byte) (source.Range, error) {
	start := s.pos
	if s.AtEOF() || s.buf.Text[s.pos] != c {
		return source.Range{}, &Error{Pos: s.buf.Position(start), Expected: string(c), Found: s.foundDesc()}
	}
	s.pos++
	return s.rangeFrom(start), nil
}

// ReadString matches a literal string, erroring on mismatch or EOF.
func (s *Scanner) ReadString(str string) (source.Range, error) {
	start := s.pos
	if s.pos+len(str) > len(s.buf.Text) || string(s.buf.Text[s.pos:s.pos+len(str)]) != str {
		return source.Range{}, &Error{Pos: s.buf.Position(start), Expected: str, Found: s.foundDesc()}
	}
	s.pos += len(str)
	return s.rangeFrom(start), nil
}

// ReadSpace consumes ASCII horizontal whitespace (spaces and tabs, not
// newlines); it never errors, returning an empty range if none is present.
func (s *Scanner) ReadSpace() source.Range {
	return s.ReadWhile(func(r rune) bool { return r == ' ' || r == '\t' })
}

// ReadSpace1 requires at least one horizontal whitespace character.
func (s *Scanner) ReadSpace1() (source.Range, error) {
	return s.ReadWhile1("whitespace", func(r rune) bool { return r == ' ' || r == '\t' })
}

// ReadRestOfLine consumes trailing horizontal whitespace then a newline, or
// EOF. It errors if stray non-whitespace content remains before the line
// end.
func (s *Scanner) ReadRestOfLine() (source.Range, error) {
	start := s.pos
	s.ReadSpace()
	if s.AtEOF() {
		return s.rangeFrom(start), nil
	}
	if s.buf.Text[s.pos] != '\n' {
		return source.Range{}, &Error{Pos: s.buf.Position(s.pos), Expected: "end of line", Found: s.foundDesc()}
	}
	s.pos++
	return s.rangeFrom(start), nil
}

// foundDesc describes the current lookahead for error messages.
func (s *Scanner) foundDesc() string {
	if s.AtEOF() {
		return ""
	}
	c := s.buf.Text[s.pos]
	if c == '\n' {
		return "newline"
	}
	return string(c)
}

// Character classification helpers shared by the parser.

func IsDigit(r rune) bool { return r >= '0' && r <= '9' }

func IsAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || IsDigit(r)
}

func IsHSpace(r rune) bool { return r == ' ' || r == '\t' }

// Package source owns the text of loaded journal files and maps byte
// offsets back to human-readable (line, column) positions for diagnostics.
package source

import "fmt"

// Buffer is an immutable-after-construction view of a single journal file's
// text. It outlives every CST node and error that references it: the loader
// owns the list of buffers for the run, and the CST only ever borrows a
// *Buffer plus a byte Range into it.
type Buffer struct {
	Name string // file path, or a synthetic name such as "<stdin>"
	Text []byte

	lineStarts []int // byte offset of the first byte of each line (1-indexed via Position)
}

// New constructs a Buffer and pre-computes its line index.
func New(name string, text []byte) *Buffer {
	b := &Buffer{Name: name, Text: text}
	b.lineStarts = append(b.lineStarts, 0)
	for i, c := range text {
		if c == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
	return b
}

// Len returns the number of bytes in the buffer's text.
func (b *Buffer) Len() int { return len(b.Text) }

// Position converts a byte offset into a 1-indexed (line, column) pair.
// Offsets past the end of the text clamp to the last line.
func (b *Buffer) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(b.Text) {
		offset = len(b.Text)
	}

	// Binary search for the line whose start is <= offset.
	lo, hi := 0, len(b.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	line := lo + 1
	column := offset - b.lineStarts[lo] + 1
	return Position{Filename: b.Name, Offset: offset, Line: line, Column: column}
}

// Line returns the raw text of the given 1-indexed line, without its
// trailing newline.
func (b *Buffer) Line(line int) string {
	if line < 1 || line > len(b.lineStarts) {
		return ""
	}
	start := b.lineStarts[line-1]
	end := len(b.Text)
	if line < len(b.lineStarts) {
		end = b.lineStarts[line] - 1
	}
	if end < start {
		end = start
	}
	for end > start && (b.Text[end-1] == '\n' || b.Text[end-1] == '\r') {
		end--
	}
	return string(b.Text[start:end])
}

// Position is a human-readable location within a Buffer.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Range is a half-open byte span [Start, End) into a Buffer. Every CST node
// and every structured error carries one.
type Range struct {
	Source *Buffer
	Start  int
	End    int
}

// Text returns a copy of the source text covered by the range, or "" if
// the range does not lie within its buffer.
func (r Range) Text() string {
	if r.Source == nil || r.Start < 0 || r.End > len(r.Source.Text) || r.Start > r.End {
		return ""
	}
	return string(r.Source.Text[r.Start:r.End])
}

// Position returns the human-readable start position of the range.
func (r Range) Position() Position {
	if r.Source == nil {
		return Position{}
	}
	return r.Source.Position(r.Start)
}

// Join returns the smallest range covering both r and other. Both must
// refer to the same Buffer; Join panics otherwise, since joining ranges
// across files is a programmer error.
func (r Range) Join(other Range) Range {
	if r.Source == nil {
		return other
	}
	if other.Source == nil {
		return r
	}
	if r.Source != other.Source {
		panic("source: Join across different buffers")
	}
	start, end := r.Start, r.End
	if other.Start < start {
		start = other.Start
	}
	if other.End > end {
		end = other.End
	}
	return Range{Source: r.Source, Start: start, End: end}
}

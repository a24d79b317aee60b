package ledgererrors

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/solenne-dev/ledgerfold/source"
)

var (
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	caretStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	contextStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
	chainLinkStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// Renderer prints an error with the offending source line, a caret under
// the exact column, and, for a ParseError, the causal chain of grammar
// constructs it passed through.
type Renderer struct {
	buf *source.Buffer
}

// NewRenderer creates a Renderer against buf, the buffer an error's
// Position is assumed to belong to.
func NewRenderer(buf *source.Buffer) *Renderer {
	return &Renderer{buf: buf}
}

// Render formats a single error.
func (r *Renderer) Render(err error) string {
	switch e := err.(type) {
	case *ParseError:
		return r.renderParseError(e)
	case *ModelError:
		return r.renderWithContext(e.Pos, e.Error())
	case *FileError:
		return errorStyle.Render(e.Error())
	case *MultiError:
		return r.RenderAll(e.Errors)
	default:
		return errorStyle.Render(err.Error())
	}
}

// RenderAll formats multiple errors, separated by a blank line.
func (r *Renderer) RenderAll(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = r.Render(err)
	}
	return strings.Join(parts, "\n\n")
}

func (r *Renderer) renderParseError(e *ParseError) string {
	var buf strings.Builder
	buf.WriteString(r.renderWithContext(e.Pos, e.Error()))

	if chain := e.Chain(); len(chain) > 1 {
		buf.WriteByte('\n')
		buf.WriteString(chainLinkStyle.Render(strings.Join(chain, " -> ")))
		buf.WriteByte('\n')
	}
	return buf.String()
}

func (r *Renderer) renderWithContext(pos source.Position, message string) string {
	var buf strings.Builder
	buf.WriteString(errorStyle.Render(message))
	buf.WriteByte('\n')

	if r.buf == nil || pos.Line <= 0 {
		return buf.String()
	}

	startLine := pos.Line - 2
	if startLine < 1 {
		startLine = 1
	}
	endLine := pos.Line

	buf.WriteByte('\n')
	for line := startLine; line <= endLine; line++ {
		buf.WriteString("   ")
		buf.WriteString(contextStyle.Render(r.buf.Line(line)))
		buf.WriteByte('\n')

		if line == pos.Line && pos.Column > 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", pos.Column-1))
			buf.WriteString(caretStyle.Render("^"))
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

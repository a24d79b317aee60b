// Package ledgererrors implements the error taxonomy of the journal
// processing pipeline: scanner errors, parser errors (which chain a cause
// and name the grammar construct being parsed), file errors, and model
// errors. It also provides a Renderer that prints an offending source line
// with a caret under the exact column, plus the causal chain.
package ledgererrors

import (
	"fmt"
	"strings"

	"github.com/solenne-dev/ledgerfold/source"
)

// ParseError wraps either a *scanner.Error or another *ParseError (via the
// error interface, to avoid an import cycle with the scanner package) and
// names the grammar construct it was attempting to parse. Chaining these
// forms a human-readable causal chain, e.g.
// "parsing month" -> "parsing date" -> "parsing command".
type ParseError struct {
	Pos       source.Position
	Range     source.Range
	Construct string // e.g. "date", "booking", "command"
	Cause     error
}

func (e *ParseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: error parsing %s", e.Pos, e.Construct)
	}
	return fmt.Sprintf("%s: error parsing %s: %s", e.Pos, e.Construct, e.Cause)
}

// Unwrap exposes the cause for errors.As/errors.Is traversal.
func (e *ParseError) Unwrap() error { return e.Cause }

// Chain renders the causal chain of constructs, innermost first, e.g.
// ["parsing month", "parsing date", "parsing command"].
func (e *ParseError) Chain() []string {
	var chain []string
	var cur error = e
	for cur != nil {
		if pe, ok := cur.(*ParseError); ok {
			chain = append(chain, "parsing "+pe.Construct)
			cur = pe.Cause
			continue
		}
		break
	}
	// chain was collected outermost-first; reverse so the innermost
	// construct (where the cause actually originated) comes first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// NewParseError constructs a ParseError naming the construct being parsed,
// wrapping cause (a scanner error or another ParseError).
func NewParseError(pos source.Position, rng source.Range, construct string, cause error) *ParseError {
	return &ParseError{Pos: pos, Range: rng, Construct: construct, Cause: cause}
}

// FileError reports a failure in the file loader: I/O failure, an include
// cycle, or a path that failed to canonicalise.
type FileError struct {
	Path    string
	Kind    FileErrorKind
	Cause   error
	Message string
}

type FileErrorKind int

const (
	FileErrorIO FileErrorKind = iota
	FileErrorCycle
	FileErrorInvalidPath
	FileErrorSyntax
)

func (e *FileError) Error() string {
	switch e.Kind {
	case FileErrorCycle:
		return fmt.Sprintf("include cycle detected at %q", e.Path)
	case FileErrorInvalidPath:
		return fmt.Sprintf("invalid include path %q: %s", e.Path, e.Message)
	case FileErrorSyntax:
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	default:
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Path, e.Cause)
		}
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
}

func (e *FileError) Unwrap() error { return e.Cause }

// ModelError reports a semantic-analysis failure: an invalid account name,
// an unrecognised account type, an invalid commodity name, or a missing
// price for a valuation lookup.
type ModelError struct {
	Pos     source.Position
	Kind    ModelErrorKind
	Message string

	// Fields for NoPriceFound, populated only when Kind == ModelErrorNoPriceFound.
	Date      string
	Commodity string
	Target    string
}

type ModelErrorKind int

const (
	ModelErrorInvalidAccount ModelErrorKind = iota
	ModelErrorInvalidAccountType
	ModelErrorInvalidCommodity
	ModelErrorNoPriceFound
	ModelErrorInvalidDate
	ModelErrorInvalidDecimal
	ModelErrorBookingMismatch
)

func (e *ModelError) Error() string {
	if e.Kind == ModelErrorNoPriceFound {
		return fmt.Sprintf("%s: no price found for %s in %s on %s", e.Pos, e.Commodity, e.Target, e.Date)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// NewNoPriceFound builds the error reported when a booking's commodity
// has no price path to the valuation target on the given date.
func NewNoPriceFound(pos source.Position, date, commodity, target string) *ModelError {
	return &ModelError{Pos: pos, Kind: ModelErrorNoPriceFound, Date: date, Commodity: commodity, Target: target}
}

// MultiError aggregates multiple errors into one. The loader, registry and
// analyser stop at the first error and do not build one.
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n\n")
}

func (e *MultiError) Unwrap() []error { return e.Errors }

package ledgererrors_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/solenne-dev/ledgerfold/ledgererrors"
	"github.com/solenne-dev/ledgerfold/source"
)

func TestParseErrorChainInnermostFirst(t *testing.T) {
	pos := source.Position{Line: 1, Column: 5}
	inner := ledgererrors.NewParseError(pos, source.Range{}, "year", nil)
	middle := ledgererrors.NewParseError(pos, source.Range{}, "date", inner)
	outer := ledgererrors.NewParseError(pos, source.Range{}, "command", middle)

	chain := outer.Chain()
	assert.Equal(t, []string{"parsing year", "parsing date", "parsing command"}, chain)
}

func TestParseErrorUnwrap(t *testing.T) {
	pos := source.Position{Line: 1, Column: 1}
	inner := ledgererrors.NewParseError(pos, source.Range{}, "year", nil)
	outer := ledgererrors.NewParseError(pos, source.Range{}, "date", inner)

	assert.Equal(t, error(inner), outer.Unwrap())
}

func TestFileErrorKinds(t *testing.T) {
	cycle := &ledgererrors.FileError{Path: "a.ledger", Kind: ledgererrors.FileErrorCycle}
	assert.Equal(t, `include cycle detected at "a.ledger"`, cycle.Error())

	invalid := &ledgererrors.FileError{Path: "b.ledger", Kind: ledgererrors.FileErrorInvalidPath, Message: "bad path"}
	assert.Equal(t, `invalid include path "b.ledger": bad path`, invalid.Error())
}

func TestNewNoPriceFound(t *testing.T) {
	pos := source.Position{Line: 2, Column: 3}
	err := ledgererrors.NewNoPriceFound(pos, "2024-01-01", "CHF", "USD")

	assert.Equal(t, ledgererrors.ModelErrorNoPriceFound, err.Kind)
	assert.Contains(t, err.Error(), "no price found for CHF in USD on 2024-01-01")
}

func TestMultiErrorJoinsMessages(t *testing.T) {
	e1 := &ledgererrors.ModelError{Pos: source.Position{Line: 1}, Message: "first"}
	e2 := &ledgererrors.ModelError{Pos: source.Position{Line: 2}, Message: "second"}
	multi := &ledgererrors.MultiError{Errors: []error{e1, e2}}

	assert.Contains(t, multi.Error(), "first")
	assert.Contains(t, multi.Error(), "second")
	assert.Equal(t, 2, len(multi.Unwrap()))
}

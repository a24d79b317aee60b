package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/solenne-dev/ledgerfold/cst"
	"github.com/solenne-dev/ledgerfold/ledgererrors"
	"github.com/solenne-dev/ledgerfold/loader"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadFollowsIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "child.journal", `2024-03-01 open Assets:Bank
`)
	root := writeFile(t, dir, "root.journal", `include "child.journal"
2024-03-02 open Expenses:Food
`)

	result, err := loader.Load(context.Background(), root)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(result.Trees))
	assert.Equal(t, 2, len(result.Buffers))

	// Discovery order: the root is parsed first, then the included child.
	_, rootIsInclude := result.Trees[0].Directives[0].(*cst.Include)
	assert.True(t, rootIsInclude)
	_, childIsOpen := result.Trees[1].Directives[0].(*cst.Open)
	assert.True(t, childIsOpen)
}

func TestLoadResolvesIncludesRelativeToIncludingFile(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	assert.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "leaf.journal", `2024-03-01 open Assets:Bank
`)
	writeFile(t, sub, "mid.journal", `include "leaf.journal"
`)
	root := writeFile(t, dir, "root.journal", `include "sub/mid.journal"
`)

	result, err := loader.Load(context.Background(), root)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(result.Trees))
}

func TestLoadDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.journal", `include "b.journal"
2024-03-01 open Assets:Bank
`)
	// b.journal includes a.journal, which includes b.journal back.
	bPath := writeFile(t, dir, "b.journal", `include "a.journal"
2024-03-02 open Expenses:Food
`)

	_, err := loader.Load(context.Background(), bPath)
	assert.Error(t, err)
	var fileErr *ledgererrors.FileError
	assert.True(t, errors.As(err, &fileErr))
	assert.Equal(t, ledgererrors.FileErrorCycle, fileErr.Kind)
}

func TestLoadReportsIOErrorForMissingFile(t *testing.T) {
	_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.journal"))
	assert.Error(t, err)
	var fileErr *ledgererrors.FileError
	assert.True(t, errors.As(err, &fileErr))
	assert.Equal(t, ledgererrors.FileErrorIO, fileErr.Kind)
}

func TestLoadReportsInvalidIncludePath(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.journal", "include \"\x00bad\"\n")

	_, err := loader.Load(context.Background(), root)
	assert.Error(t, err)
	var fileErr *ledgererrors.FileError
	assert.True(t, errors.As(err, &fileErr))
	assert.Equal(t, ledgererrors.FileErrorInvalidPath, fileErr.Kind)
}

func TestLoadPropagatesParseError(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "root.journal", "2024-0X-01 open Assets:Bank\n")

	result, err := loader.Load(context.Background(), root)
	assert.Error(t, err)
	// The failing file's buffer is still present so the caller can
	// render the error's source context.
	assert.Equal(t, 1, len(result.Buffers))
}

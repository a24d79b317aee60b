// Package loader resolves `include` directives into the full set of source
// files backing a journal. Unlike a general-purpose file merger it does not
// deduplicate diamond includes: the pipeline is single-threaded and
// synchronous end to end (no goroutines, no errgroup), and the loader
// treats any canonicalised path reappearing in the queue as a hard cycle
// error, per the include-graph contract the analyser relies on.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/solenne-dev/ledgerfold/cst"
	"github.com/solenne-dev/ledgerfold/ledgererrors"
	"github.com/solenne-dev/ledgerfold/parser"
	"github.com/solenne-dev/ledgerfold/source"
	"github.com/solenne-dev/ledgerfold/telemetry"
)

// Result is the full set of parsed trees backing a journal, in discovery
// order, plus the source buffers that own their text. Semantic analysis
// downstream is order-independent: all day merging is keyed by date.
type Result struct {
	Trees   []*cst.Tree
	Buffers []*source.Buffer
}

// Load reads rootPath and every file it (transitively) includes, parsing
// each with parser.Parse. It returns the first error encountered,
// *ledgererrors.FileError for I/O, cycle, or path failures, or a
// *ledgererrors.ParseError propagated from parser.Parse, alongside the
// partial Result accumulated so far, so a caller can still render the
// failing file's source context (the buffer for the file that failed to
// parse is always present in Buffers, even though its tree is not in
// Trees).
func Load(ctx context.Context, rootPath string) (*Result, error) {
	root, err := canonicalize(rootPath)
	if err != nil {
		return &Result{}, &ledgererrors.FileError{Path: rootPath, Kind: ledgererrors.FileErrorInvalidPath, Cause: err}
	}

	queue := []string{root}
	seen := map[string]bool{root: true}

	var result Result
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		timer := telemetry.FromContext(ctx).Start(fmt.Sprintf("loader.load %s", filepath.Base(path)))
		data, err := os.ReadFile(path)
		if err != nil {
			timer.End()
			return &result, &ledgererrors.FileError{Path: path, Kind: ledgererrors.FileErrorIO, Cause: err}
		}

		buf := source.New(path, data)
		result.Buffers = append(result.Buffers, buf)

		tree, err := parser.Parse(buf)
		timer.End()
		if err != nil {
			return &result, err
		}
		result.Trees = append(result.Trees, tree)

		dir := filepath.Dir(path)
		for _, d := range tree.Directives {
			inc, ok := d.(*cst.Include)
			if !ok {
				continue
			}
			incPath, err := canonicalize(filepath.Join(dir, inc.Path.Value))
			if err != nil {
				return &result, &ledgererrors.FileError{Path: inc.Path.Value, Kind: ledgererrors.FileErrorInvalidPath, Cause: err}
			}
			if seen[incPath] {
				return &result, &ledgererrors.FileError{Path: incPath, Kind: ledgererrors.FileErrorCycle}
			}
			seen[incPath] = true
			queue = append(queue, incPath)
		}
	}

	return &result, nil
}

// canonicalize resolves path to an absolute, symlink-free form so the same
// file reached via two different relative routes compares equal. A path
// that does not yet exist on disk is cleaned rather than rejected here;
// the subsequent os.ReadFile surfaces the real I/O error with correct
// FileErrorIO semantics.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return filepath.Clean(abs), nil
		}
		return "", err
	}
	return resolved, nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"github.com/solenne-dev/ledgerfold/journal"
	"github.com/solenne-dev/ledgerfold/loader"
	"github.com/solenne-dev/ledgerfold/registry"
)

// CheckCmd loads, parses, and analyses a journal, reporting the first
// error found. With --watch it re-runs on every change to the file's
// directory.
type CheckCmd struct {
	File  string `arg:"" help:"Journal filename."`
	Watch bool   `help:"Re-check whenever a file in the journal's directory is written or created."`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if !cmd.Watch {
		ok := cmd.runOnce(ctx, globals)
		if !ok {
			os.Exit(1)
		}
		return nil
	}
	return cmd.watch(ctx, globals)
}

func (cmd *CheckCmd) runOnce(ctx *kong.Context, globals *Globals) bool {
	runCtx, report := withTelemetry(context.Background(), globals, ctx, fmt.Sprintf("check %s", cmd.File))
	defer report()

	result, err := loader.Load(runCtx, cmd.File)
	if err != nil {
		fmt.Fprintln(ctx.Stderr, renderError(result.Buffers, err))
		printError(ctx.Stderr, "parse error")
		return false
	}

	reg := registry.New()
	if _, err := journal.Analyze(runCtx, reg, result.Trees); err != nil {
		fmt.Fprintln(ctx.Stderr, renderError(result.Buffers, err))
		printError(ctx.Stderr, "analysis error")
		return false
	}

	printSuccess(ctx.Stdout, "Check passed")
	return true
}

// watch re-runs runOnce whenever anything in cmd.File's directory is
// written or created.
func (cmd *CheckCmd) watch(ctx *kong.Context, globals *Globals) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(cmd.File)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	cmd.runOnce(ctx, globals)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			printInfof(ctx.Stdout, "%s changed, re-checking", event.Name)
			cmd.runOnce(ctx, globals)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, err.Error())
		}
	}
}

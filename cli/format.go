package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/solenne-dev/ledgerfold/format"
	"github.com/solenne-dev/ledgerfold/parser"
	"github.com/solenne-dev/ledgerfold/source"
)

// FormatCmd formats a single journal file's directives into canonical,
// column-aligned text. It does not follow includes; each file is
// formatted on its own.
type FormatCmd struct {
	File           string `arg:"" help:"Journal filename."`
	Write          bool   `help:"Write the formatted output back to the file (prompts for confirmation on a terminal)."`
	CurrencyColumn int    `help:"Column for currency alignment (auto-calculated if 0)." default:"0"`
	PrefixWidth    int    `help:"Width for account names (auto if 0)." default:"0"`
	NumWidth       int    `help:"Width for numbers (auto if 0)." default:"0"`
}

func (cmd *FormatCmd) Run(ctx *kong.Context, globals *Globals) error {
	_, report := withTelemetry(context.Background(), globals, ctx, fmt.Sprintf("format %s", cmd.File))
	defer report()

	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	buf := source.New(cmd.File, data)
	tree, err := parser.Parse(buf)
	if err != nil {
		fmt.Fprintln(ctx.Stderr, renderError([]*source.Buffer{buf}, err))
		printError(ctx.Stderr, "parse error")
		os.Exit(1)
		return nil
	}

	var opts []format.Option
	if cmd.CurrencyColumn > 0 {
		opts = append(opts, format.WithCurrencyColumn(cmd.CurrencyColumn))
	}
	if cmd.PrefixWidth > 0 {
		opts = append(opts, format.WithPrefixWidth(cmd.PrefixWidth))
	}
	if cmd.NumWidth > 0 {
		opts = append(opts, format.WithNumWidth(cmd.NumWidth))
	}
	f := format.New(opts...)

	if !cmd.Write {
		return f.Format(tree, ctx.Stdout)
	}

	if isTerminal() {
		confirm, err := promptYesNo(fmt.Sprintf("Overwrite %s with formatted output?", cmd.File))
		if err != nil {
			return err
		}
		if !confirm {
			printInfof(ctx.Stdout, "skipped")
			return nil
		}
	}

	tmp, err := os.CreateTemp(os.TempDir(), "ledgerfold-format-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := f.Format(tree, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), cmd.File); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.File, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Formatted %s", cmd.File))
	return nil
}

func promptYesNo(question string) (bool, error) {
	var confirm bool
	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}
	return confirm, nil
}

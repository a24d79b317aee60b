// Package cli wires the kong subcommands (parse, format, balance, check)
// onto the loader/journal/valuation/report pipeline.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Globals holds flags shared by every subcommand.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

// Commands is the kong root command tree.
type Commands struct {
	Globals

	Parse   ParseCmd   `cmd:"" help:"Parse a journal file and report syntax errors."`
	Format  FormatCmd  `cmd:"" help:"Format a journal file to align numbers and commodities."`
	Balance BalanceCmd `cmd:"" help:"Render a balance report over one or more periods."`
	Check   CheckCmd   `cmd:"" help:"Parse and analyse a journal, reporting errors."`
}

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", successStyle.Render(successSymbol), message)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", errorStyle.Render(errorSymbol), errorStyle.Render(message))
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, "%s %s\n", infoStyle.Render(infoSymbol), fmt.Sprintf(format, args...))
}

func isTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// Package format renders a parsed cst.Tree back into canonical journal
// text, with account names and quantities aligned into auto-calculated
// columns. Formatting covers directives only; comments are not preserved.
// Booking and sub-assertion lines are emitted at column zero, since the
// grammar ends a transaction at the first line that does not begin with an
// alphanumeric character, so formatted output always re-parses.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/solenne-dev/ledgerfold/cst"
)

const minimumSpacing = 2

// Option configures a Formatter.
type Option func(*Formatter)

// WithPrefixWidth overrides the column width reserved for account names;
// 0 (the default) auto-calculates it from the widest account name.
func WithPrefixWidth(n int) Option { return func(f *Formatter) { f.prefixWidth = n } }

// WithNumWidth overrides the column width quantities are right-aligned in;
// 0 auto-calculates it from the widest quantity text.
func WithNumWidth(n int) Option { return func(f *Formatter) { f.numWidth = n } }

// WithCurrencyColumn fixes the column commodity codes align to; 0
// derives it from the prefix and number widths.
func WithCurrencyColumn(n int) Option { return func(f *Formatter) { f.currencyColumn = n } }

// Formatter renders a cst.Tree into aligned canonical text.
type Formatter struct {
	prefixWidth    int
	numWidth       int
	currencyColumn int
}

// New creates a Formatter with auto-calculated widths, overridden by opts.
func New(opts ...Option) *Formatter {
	f := &Formatter{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format writes tree's directives to w in canonical form.
func (f *Formatter) Format(tree *cst.Tree, w io.Writer) error {
	prefixWidth, numWidth := f.prefixWidth, f.numWidth
	if prefixWidth == 0 || numWidth == 0 {
		autoPrefix, autoNum := measure(tree)
		if prefixWidth == 0 {
			prefixWidth = autoPrefix
		}
		if numWidth == 0 {
			numWidth = autoNum
		}
	}
	currencyCol := f.currencyColumn
	if currencyCol == 0 {
		currencyCol = 2*prefixWidth + 2 + numWidth + minimumSpacing
	}

	for i, d := range tree.Directives {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := f.formatDirective(w, d, prefixWidth, numWidth, currencyCol); err != nil {
			return err
		}
	}
	return nil
}

func measure(tree *cst.Tree) (prefixWidth, numWidth int) {
	walkAccountsAndQuantities(tree, func(account string) {
		if w := runewidth.StringWidth(account); w > prefixWidth {
			prefixWidth = w
		}
	}, func(qty string) {
		if w := runewidth.StringWidth(qty); w > numWidth {
			numWidth = w
		}
	})
	return
}

func walkAccountsAndQuantities(tree *cst.Tree, onAccount func(string), onQuantity func(string)) {
	for _, d := range tree.Directives {
		switch n := d.(type) {
		case *cst.Balance:
			for _, a := range n.Assertions {
				onAccount(a.Account.Name)
				onQuantity(a.Balance.Text)
			}
		case *cst.Transaction:
			for _, b := range n.Bookings {
				onAccount(b.Account.Name)
				onAccount(b.Other.Name)
				onQuantity(b.Quantity.Text)
			}
		}
	}
}

func (f *Formatter) formatDirective(w io.Writer, d cst.Directive, prefixWidth, numWidth, currencyCol int) error {
	switch n := d.(type) {
	case *cst.Include:
		_, err := fmt.Fprintf(w, "include %q\n", n.Path.Value)
		return err
	case *cst.Price:
		_, err := fmt.Fprintf(w, "%s price %s %s %s\n", formatDate(n.Date), n.Commodity.Name, n.Price.Text, n.Target.Name)
		return err
	case *cst.Open:
		_, err := fmt.Fprintf(w, "%s open %s\n", formatDate(n.Date), n.Account.Name)
		return err
	case *cst.Close:
		_, err := fmt.Fprintf(w, "%s close %s\n", formatDate(n.Date), n.Account.Name)
		return err
	case *cst.Balance:
		return formatBalance(w, n, prefixWidth, numWidth, currencyCol)
	case *cst.Transaction:
		return formatTransaction(w, n, prefixWidth, numWidth, currencyCol)
	}
	return fmt.Errorf("format: unhandled directive %T", d)
}

func formatDate(d *cst.Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func formatBalance(w io.Writer, n *cst.Balance, prefixWidth, numWidth, currencyCol int) error {
	if len(n.Assertions) == 1 {
		a := n.Assertions[0]
		_, err := fmt.Fprintf(w, "%s balance %s %s %s\n", formatDate(n.Date), a.Account.Name, a.Balance.Text, a.Commodity.Name)
		return err
	}
	if _, err := fmt.Fprintf(w, "%s balance\n", formatDate(n.Date)); err != nil {
		return err
	}
	for _, a := range n.Assertions {
		line := padRight(a.Account.Name, prefixWidth) + " " + padLeft(a.Balance.Text, numWidth)
		if _, err := fmt.Fprintln(w, alignCurrency(line, a.Commodity.Name, currencyCol)); err != nil {
			return err
		}
	}
	return nil
}

func formatTransaction(w io.Writer, n *cst.Transaction, prefixWidth, numWidth, currencyCol int) error {
	if n.Addon != nil {
		if err := formatAddon(w, n.Addon); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s %q\n", formatDate(n.Date), n.Description.Value); err != nil {
		return err
	}
	for _, b := range n.Bookings {
		line := padRight(b.Account.Name, prefixWidth) + " " + padRight(b.Other.Name, prefixWidth) + " " + padLeft(b.Quantity.Text, numWidth)
		if _, err := fmt.Fprintln(w, alignCurrency(line, b.Commodity.Name, currencyCol)); err != nil {
			return err
		}
	}
	return nil
}

func formatAddon(w io.Writer, addon cst.Addon) error {
	switch a := addon.(type) {
	case *cst.PerformanceTargets:
		names := make([]string, len(a.Commodities))
		for i, c := range a.Commodities {
			names[i] = c.Name
		}
		_, err := fmt.Fprintf(w, "@performance(%s)\n", strings.Join(names, ","))
		return err
	case *cst.Accrue:
		_, err := fmt.Fprintf(w, "@accrue %s %s %s %s\n", a.Interval.Text, formatDate(a.Start), formatDate(a.End), a.Account.Name)
		return err
	}
	return fmt.Errorf("format: unhandled addon %T", addon)
}

func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func padLeft(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

func alignCurrency(line, currency string, column int) string {
	w := runewidth.StringWidth(line)
	if w >= column {
		return line + " " + currency
	}
	return line + strings.Repeat(" ", column-w) + currency
}

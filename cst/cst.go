// Package cst defines the position-preserving concrete syntax tree produced
// by the parser. Every node is immutable after parsing and carries the
// source.Range it was parsed from, so later stages (formatter, error
// reporting) can always recover the exact original text.
package cst

import "github.com/solenne-dev/ledgerfold/source"

// Node is implemented by every CST node.
type Node interface {
	Range() source.Range
}

// Directive is implemented by every top-level dated directive plus Include.
type Directive interface {
	Node
	directiveNode()
}

// Addon is implemented by the two addon variants that may precede a dated
// command: @performance(...) and @accrue ....
type Addon interface {
	Node
	addonNode()
}

// Tree is the whole parsed file: one Tree per included source file, in
// loader discovery order.
type Tree struct {
	Range_     source.Range
	Source     *source.Buffer
	Directives []Directive
}

func (t *Tree) Range() source.Range { return t.Range_ }

// Include is a top-level `include "path"` directive.
type Include struct {
	Range_ source.Range
	Path   *QuotedString
}

func (n *Include) Range() source.Range { return n.Range_ }
func (*Include) directiveNode()        {}

// Date is a literal YYYY-MM-DD token. The parser checks only the digit
// layout; the analyser rejects dates that are not on the calendar. The
// range is kept for exact error positioning.
type Date struct {
	Range_           source.Range
	Year, Month, Day int
}

func (n *Date) Range() source.Range { return n.Range_ }

// Decimal is a literal signed decimal number, kept as text so the analyser
// can parse it exactly with no intermediate float conversion.
type Decimal struct {
	Range_ source.Range
	Text   string
}

func (n *Decimal) Range() source.Range { return n.Range_ }

// Commodity is a literal commodity/currency code.
type Commodity struct {
	Range_ source.Range
	Name   string
}

func (n *Commodity) Range() source.Range { return n.Range_ }

// Account is a literal `Type(:Segment)*` account name. Segments carries the
// byte range of each colon-separated piece, including the leading type, for
// fine-grained diagnostics and account shortening.
type Account struct {
	Range_   source.Range
	Name     string
	Segments []source.Range
}

func (n *Account) Range() source.Range { return n.Range_ }

// QuotedString is a literal "..." token; Value has the surrounding quotes
// stripped.
type QuotedString struct {
	Range_ source.Range
	Value  string
}

func (n *QuotedString) Range() source.Range { return n.Range_ }

// IntervalLiteral is one of the six interval keywords used by @accrue.
type IntervalLiteral struct {
	Range_ source.Range
	Text   string
}

func (n *IntervalLiteral) Range() source.Range { return n.Range_ }

// PerformanceTargets is the `@performance(C1, C2, ...)` addon.
type PerformanceTargets struct {
	Range_      source.Range
	Commodities []*Commodity
}

func (n *PerformanceTargets) Range() source.Range { return n.Range_ }
func (*PerformanceTargets) addonNode()            {}

// Accrue is the `@accrue INTERVAL START END ACCOUNT` addon.
type Accrue struct {
	Range_   source.Range
	Interval *IntervalLiteral
	Start    *Date
	End      *Date
	Account  *Account
}

func (n *Accrue) Range() source.Range { return n.Range_ }
func (*Accrue) addonNode()            {}

// Price is a `DATE price COMMODITY DECIMAL COMMODITY` directive.
type Price struct {
	Range_    source.Range
	Date      *Date
	Commodity *Commodity
	Price     *Decimal
	Target    *Commodity
}

func (n *Price) Range() source.Range { return n.Range_ }
func (*Price) directiveNode()        {}

// Open is a `DATE open ACCOUNT` directive.
type Open struct {
	Range_  source.Range
	Date    *Date
	Account *Account
}

func (n *Open) Range() source.Range { return n.Range_ }
func (*Open) directiveNode()        {}

// Close is a `DATE close ACCOUNT` directive.
type Close struct {
	Range_  source.Range
	Date    *Date
	Account *Account
}

func (n *Close) Range() source.Range { return n.Range_ }
func (*Close) directiveNode()        {}

// Booking is one `ACCOUNT ACCOUNT DECIMAL COMMODITY` line inside a
// transaction.
type Booking struct {
	Range_    source.Range
	Account   *Account
	Other     *Account
	Quantity  *Decimal
	Commodity *Commodity
}

func (n *Booking) Range() source.Range { return n.Range_ }

// Transaction is a `DATE "description"` header followed by one or more
// Booking lines, optionally preceded by an Addon.
type Transaction struct {
	Range_      source.Range
	Addon       Addon
	Date        *Date
	Description *QuotedString
	Bookings    []*Booking
}

func (n *Transaction) Range() source.Range { return n.Range_ }
func (*Transaction) directiveNode()        {}

// SubAssertion is one `ACCOUNT DECIMAL COMMODITY` line of a multi-line
// balance directive.
type SubAssertion struct {
	Range_    source.Range
	Account   *Account
	Balance   *Decimal
	Commodity *Commodity
}

func (n *SubAssertion) Range() source.Range { return n.Range_ }

// Balance is a `DATE balance ...` directive, either a single inline
// assertion or a header followed by SubAssertion lines.
type Balance struct {
	Range_     source.Range
	Date       *Date
	Assertions []*SubAssertion
}

func (n *Balance) Range() source.Range { return n.Range_ }
func (*Balance) directiveNode()        {}

// Package parser implements the recursive-descent parser that turns a
// source.Buffer's text into a cst.Tree. Each parse function records its
// start offset, delegates to the scanner, and wraps scanner errors in a
// ledgererrors.ParseError naming the grammar construct being parsed, so
// failures form a chained, human-readable diagnostic.
package parser

import (
	"strconv"

	"github.com/solenne-dev/ledgerfold/cst"
	"github.com/solenne-dev/ledgerfold/ledgererrors"
	"github.com/solenne-dev/ledgerfold/scanner"
	"github.com/solenne-dev/ledgerfold/source"
)

// Parse parses buf's full text into a cst.Tree, or returns the first
// *ledgererrors.ParseError encountered. Parsing never panics on malformed
// input.
func Parse(buf *source.Buffer) (*cst.Tree, error) {
	s := scanner.New(buf)
	treeStart := s.Pos()

	var directives []cst.Directive
	var pendingAddon cst.Addon

	for {
		skipBlankAndComments(s)
		if s.AtEOF() {
			if pendingAddon != nil {
				return nil, wrap(s, pendingAddon.Range().Start, "command", &scanner.Error{
					Pos: s.Buffer().Position(s.Pos()), Expected: "transaction (an addon must precede a transaction)",
				})
			}
			break
		}

		if s.Current() == '@' {
			if pendingAddon != nil {
				return nil, wrap(s, s.Pos(), "addon", &scanner.Error{
					Pos: s.Buffer().Position(s.Pos()), Expected: "transaction (at most one addon may precede it)", Found: "@",
				})
			}
			addon, err := parseAddon(s)
			if err != nil {
				return nil, err
			}
			pendingAddon = addon
			continue
		}

		if pendingAddon == nil && peekKeyword(s, "include") {
			inc, err := parseInclude(s)
			if err != nil {
				return nil, err
			}
			directives = append(directives, inc)
			continue
		}

		cmd, err := parseCommand(s, pendingAddon)
		if err != nil {
			return nil, err
		}
		pendingAddon = nil
		directives = append(directives, cmd)
	}

	return &cst.Tree{
		Range_:     source.Range{Source: buf, Start: treeStart, End: s.Pos()},
		Source:     buf,
		Directives: directives,
	}, nil
}

// ParseBytes is a convenience wrapper that constructs the source.Buffer.
func ParseBytes(name string, text []byte) (*cst.Tree, error) {
	return Parse(source.New(name, text))
}

// skipBlankAndComments consumes any run of blank lines and comment lines
// ('#', '*', or '//' to end of line), leaving the cursor at the start of
// the next significant line (or at EOF).
func skipBlankAndComments(s *scanner.Scanner) {
	for {
		lineStart := s.Pos()
		s.ReadSpace()
		if s.AtEOF() {
			return
		}
		switch s.Current() {
		case '\n':
			s.ReadChar('\n')
			continue
		case '#', '*':
			s.ReadUntil(func(r rune) bool { return r == '\n' })
			continue
		case '/':
			save := s.Pos()
			if _, err := s.ReadString("//"); err == nil {
				s.ReadUntil(func(r rune) bool { return r == '\n' })
				continue
			}
			s.SetPos(save)
		}
		s.SetPos(lineStart)
		return
	}
}

// lineStartsWithAlnum reports whether the cursor (at the start of a line)
// is positioned on an alphanumeric character, the termination rule for
// transaction booking lists and multi-line balance assertions.
func lineStartsWithAlnum(s *scanner.Scanner) bool {
	return !s.AtEOF() && scanner.IsAlnum(rune(s.Current()))
}

// peekKeyword reports whether the literal kw appears at the cursor,
// followed by a non-alphanumeric byte (or EOF), without consuming input.
func peekKeyword(s *scanner.Scanner, kw string) bool {
	save := s.Pos()
	_, err := s.ReadString(kw)
	ok := err == nil
	if ok && !s.AtEOF() && scanner.IsAlnum(rune(s.Current())) {
		ok = false
	}
	s.SetPos(save)
	return ok
}

func rangeFrom(s *scanner.Scanner, start int) source.Range {
	return source.Range{Source: s.Buffer(), Start: start, End: s.Pos()}
}

func foundAt(s *scanner.Scanner) string {
	if s.AtEOF() {
		return ""
	}
	if s.Current() == '\n' {
		return "newline"
	}
	return string(s.Current())
}

// errPos extracts the originating position of a scanner or parser error so
// the outermost wrapping ParseError reports where the failure actually
// happened, not where the enclosing construct started.
func errPos(cause error) source.Position {
	switch e := cause.(type) {
	case *scanner.Error:
		return e.Pos
	case *ledgererrors.ParseError:
		return e.Pos
	}
	return source.Position{}
}

// wrap builds a ledgererrors.ParseError naming construct, spanning from
// start to the current cursor position, wrapping cause.
func wrap(s *scanner.Scanner, start int, construct string, cause error) error {
	return ledgererrors.NewParseError(errPos(cause), rangeFrom(s, start), construct, cause)
}

// --- literals -------------------------------------------------------------

func parseQuotedString(s *scanner.Scanner) (*cst.QuotedString, error) {
	start := s.Pos()
	if _, err := s.ReadChar('"'); err != nil {
		return nil, wrap(s, start, "quoted string", err)
	}
	value := s.ReadUntil(func(r rune) bool { return r == '"' })
	if _, err := s.ReadChar('"'); err != nil {
		return nil, wrap(s, start, "quoted string", err)
	}
	return &cst.QuotedString{Range_: rangeFrom(s, start), Value: value.Text()}, nil
}

func parseDate(s *scanner.Scanner) (*cst.Date, error) {
	start := s.Pos()

	year, err := s.ReadN(4, "digit", scanner.IsDigit)
	if err != nil {
		return nil, wrap(s, start, "date", wrap(s, start, "year", err))
	}
	if _, err := s.ReadChar('-'); err != nil {
		return nil, wrap(s, start, "date", err)
	}
	month, err := s.ReadN(2, "digit", scanner.IsDigit)
	if err != nil {
		return nil, wrap(s, start, "date", wrap(s, start, "month", err))
	}
	if _, err := s.ReadChar('-'); err != nil {
		return nil, wrap(s, start, "date", err)
	}
	day, err := s.ReadN(2, "digit", scanner.IsDigit)
	if err != nil {
		return nil, wrap(s, start, "date", wrap(s, start, "day", err))
	}

	y, _ := strconv.Atoi(year.Text())
	m, _ := strconv.Atoi(month.Text())
	d, _ := strconv.Atoi(day.Text())
	return &cst.Date{Range_: rangeFrom(s, start), Year: y, Month: m, Day: d}, nil
}

func parseDecimal(s *scanner.Scanner) (*cst.Decimal, error) {
	start := s.Pos()
	if !s.AtEOF() && s.Current() == '-' {
		s.ReadChar('-')
	}
	if _, err := s.ReadWhile1("digit", scanner.IsDigit); err != nil {
		return nil, wrap(s, start, "decimal", err)
	}
	if !s.AtEOF() && s.Current() == '.' {
		save := s.Pos()
		s.ReadChar('.')
		if _, err := s.ReadWhile1("digit", scanner.IsDigit); err != nil {
			// A trailing '.' with no digits is not part of the decimal;
			// back off and let the caller's separator parsing handle it.
			s.SetPos(save)
		}
	}
	return &cst.Decimal{Range_: rangeFrom(s, start), Text: rangeFrom(s, start).Text()}, nil
}

func parseCommodity(s *scanner.Scanner) (*cst.Commodity, error) {
	start := s.Pos()
	r, err := s.ReadWhile1("commodity", scanner.IsAlnum)
	if err != nil {
		return nil, wrap(s, start, "commodity", err)
	}
	return &cst.Commodity{Range_: rangeFrom(s, start), Name: r.Text()}, nil
}

func parseAccount(s *scanner.Scanner) (*cst.Account, error) {
	start := s.Pos()
	first, err := s.ReadWhile1("account segment", scanner.IsAlnum)
	if err != nil {
		return nil, wrap(s, start, "account", err)
	}
	segments := []source.Range{first}
	for !s.AtEOF() && s.Current() == ':' {
		s.ReadChar(':')
		seg, err := s.ReadWhile1("account segment", scanner.IsAlnum)
		if err != nil {
			return nil, wrap(s, start, "account", err)
		}
		segments = append(segments, seg)
	}
	full := rangeFrom(s, start)
	return &cst.Account{Range_: full, Name: full.Text(), Segments: segments}, nil
}

func parseInterval(s *scanner.Scanner) (*cst.IntervalLiteral, error) {
	start := s.Pos()
	r, err := s.ReadWhile1("interval", scanner.IsAlnum)
	if err != nil {
		return nil, wrap(s, start, "interval", err)
	}
	switch r.Text() {
	case "once", "daily", "weekly", "monthly", "quarterly", "yearly":
		return &cst.IntervalLiteral{Range_: rangeFrom(s, start), Text: r.Text()}, nil
	}
	return nil, wrap(s, start, "interval", &scanner.Error{
		Pos: r.Position(), Expected: "once, daily, weekly, monthly, quarterly, or yearly", Found: r.Text(),
	})
}

// --- addons -----------------------------------------------------------

func parseAddon(s *scanner.Scanner) (cst.Addon, error) {
	start := s.Pos()
	if _, err := s.ReadChar('@'); err != nil {
		return nil, wrap(s, start, "addon", err)
	}
	switch {
	case peekKeyword(s, "performance"):
		return parsePerformance(s, start)
	case peekKeyword(s, "accrue"):
		return parseAccrue(s, start)
	}
	return nil, wrap(s, start, "addon", &scanner.Error{
		Pos: s.Buffer().Position(s.Pos()), Expected: "performance or accrue", Found: foundAt(s),
	})
}

func parsePerformance(s *scanner.Scanner, start int) (*cst.PerformanceTargets, error) {
	if _, err := s.ReadString("performance"); err != nil {
		return nil, wrap(s, start, "performance", err)
	}
	if _, err := s.ReadChar('('); err != nil {
		return nil, wrap(s, start, "performance", err)
	}
	first, err := parseCommodity(s)
	if err != nil {
		return nil, wrap(s, start, "performance", err)
	}
	commodities := []*cst.Commodity{first}
	for {
		s.ReadSpace()
		if s.AtEOF() || s.Current() != ',' {
			break
		}
		s.ReadChar(',')
		s.ReadSpace()
		c, err := parseCommodity(s)
		if err != nil {
			return nil, wrap(s, start, "performance", err)
		}
		commodities = append(commodities, c)
	}
	if _, err := s.ReadChar(')'); err != nil {
		return nil, wrap(s, start, "performance", err)
	}
	if _, err := s.ReadRestOfLine(); err != nil {
		return nil, wrap(s, start, "performance", err)
	}
	return &cst.PerformanceTargets{Range_: rangeFrom(s, start), Commodities: commodities}, nil
}

func parseAccrue(s *scanner.Scanner, start int) (*cst.Accrue, error) {
	if _, err := s.ReadString("accrue"); err != nil {
		return nil, wrap(s, start, "accrue", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "accrue", err)
	}
	interval, err := parseInterval(s)
	if err != nil {
		return nil, wrap(s, start, "accrue", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "accrue", err)
	}
	from, err := parseDate(s)
	if err != nil {
		return nil, wrap(s, start, "accrue", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "accrue", err)
	}
	to, err := parseDate(s)
	if err != nil {
		return nil, wrap(s, start, "accrue", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "accrue", err)
	}
	account, err := parseAccount(s)
	if err != nil {
		return nil, wrap(s, start, "accrue", err)
	}
	if _, err := s.ReadRestOfLine(); err != nil {
		return nil, wrap(s, start, "accrue", err)
	}
	return &cst.Accrue{Range_: rangeFrom(s, start), Interval: interval, Start: from, End: to, Account: account}, nil
}

// --- top-level directives ----------------------------------------------

func parseInclude(s *scanner.Scanner) (*cst.Include, error) {
	start := s.Pos()
	if _, err := s.ReadString("include"); err != nil {
		return nil, wrap(s, start, "include", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "include", err)
	}
	path, err := parseQuotedString(s)
	if err != nil {
		return nil, wrap(s, start, "include", err)
	}
	if _, err := s.ReadRestOfLine(); err != nil {
		return nil, wrap(s, start, "include", err)
	}
	return &cst.Include{Range_: rangeFrom(s, start), Path: path}, nil
}

// parseCommand dispatches on the keyword following the leading date. addon
// is the pending addon parsed on the previous line, if any; an addon may
// only precede a transaction.
func parseCommand(s *scanner.Scanner, addon cst.Addon) (cst.Directive, error) {
	start := s.Pos()
	date, err := parseDate(s)
	if err != nil {
		return nil, wrap(s, start, "command", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "command", err)
	}

	if addon != nil {
		if s.AtEOF() || s.Current() != '"' {
			return nil, wrap(s, start, "command", &scanner.Error{
				Pos: s.Buffer().Position(s.Pos()), Expected: "transaction (an addon must precede a transaction)", Found: foundAt(s),
			})
		}
		return parseTransaction(s, start, date, addon)
	}

	switch {
	case peekKeyword(s, "price"):
		return parsePrice(s, start, date)
	case peekKeyword(s, "open"):
		return parseOpen(s, start, date)
	case peekKeyword(s, "close"):
		return parseClose(s, start, date)
	case peekKeyword(s, "balance"):
		return parseBalance(s, start, date)
	case !s.AtEOF() && s.Current() == '"':
		return parseTransaction(s, start, date, nil)
	}
	return nil, wrap(s, start, "command", &scanner.Error{
		Pos: s.Buffer().Position(s.Pos()), Expected: "price, open, close, balance, or transaction", Found: foundAt(s),
	})
}

func parsePrice(s *scanner.Scanner, start int, date *cst.Date) (*cst.Price, error) {
	if _, err := s.ReadString("price"); err != nil {
		return nil, wrap(s, start, "price", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "price", err)
	}
	commodity, err := parseCommodity(s)
	if err != nil {
		return nil, wrap(s, start, "price", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "price", err)
	}
	price, err := parseDecimal(s)
	if err != nil {
		return nil, wrap(s, start, "price", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "price", err)
	}
	target, err := parseCommodity(s)
	if err != nil {
		return nil, wrap(s, start, "price", err)
	}
	if _, err := s.ReadRestOfLine(); err != nil {
		return nil, wrap(s, start, "price", err)
	}
	return &cst.Price{Range_: rangeFrom(s, start), Date: date, Commodity: commodity, Price: price, Target: target}, nil
}

func parseOpen(s *scanner.Scanner, start int, date *cst.Date) (*cst.Open, error) {
	if _, err := s.ReadString("open"); err != nil {
		return nil, wrap(s, start, "open", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "open", err)
	}
	account, err := parseAccount(s)
	if err != nil {
		return nil, wrap(s, start, "open", err)
	}
	if _, err := s.ReadRestOfLine(); err != nil {
		return nil, wrap(s, start, "open", err)
	}
	return &cst.Open{Range_: rangeFrom(s, start), Date: date, Account: account}, nil
}

func parseClose(s *scanner.Scanner, start int, date *cst.Date) (*cst.Close, error) {
	if _, err := s.ReadString("close"); err != nil {
		return nil, wrap(s, start, "close", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "close", err)
	}
	account, err := parseAccount(s)
	if err != nil {
		return nil, wrap(s, start, "close", err)
	}
	if _, err := s.ReadRestOfLine(); err != nil {
		return nil, wrap(s, start, "close", err)
	}
	return &cst.Close{Range_: rangeFrom(s, start), Date: date, Account: account}, nil
}

func parseBalance(s *scanner.Scanner, start int, date *cst.Date) (*cst.Balance, error) {
	if _, err := s.ReadString("balance"); err != nil {
		return nil, wrap(s, start, "balance", err)
	}
	s.ReadSpace()

	if s.AtEOF() || s.Current() == '\n' {
		if _, err := s.ReadRestOfLine(); err != nil {
			return nil, wrap(s, start, "balance", err)
		}
		var assertions []*cst.SubAssertion
		for lineStartsWithAlnum(s) {
			sub, err := parseSubAssertion(s)
			if err != nil {
				return nil, wrap(s, start, "balance", err)
			}
			assertions = append(assertions, sub)
		}
		if len(assertions) == 0 {
			return nil, wrap(s, start, "balance", &scanner.Error{
				Pos: s.Buffer().Position(s.Pos()), Expected: "at least one balance assertion", Found: foundAt(s),
			})
		}
		return &cst.Balance{Range_: rangeFrom(s, start), Date: date, Assertions: assertions}, nil
	}

	sub, err := parseSubAssertion(s)
	if err != nil {
		return nil, wrap(s, start, "balance", err)
	}
	return &cst.Balance{Range_: rangeFrom(s, start), Date: date, Assertions: []*cst.SubAssertion{sub}}, nil
}

func parseSubAssertion(s *scanner.Scanner) (*cst.SubAssertion, error) {
	start := s.Pos()
	account, err := parseAccount(s)
	if err != nil {
		return nil, wrap(s, start, "assertion", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "assertion", err)
	}
	balance, err := parseDecimal(s)
	if err != nil {
		return nil, wrap(s, start, "assertion", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "assertion", err)
	}
	commodity, err := parseCommodity(s)
	if err != nil {
		return nil, wrap(s, start, "assertion", err)
	}
	if _, err := s.ReadRestOfLine(); err != nil {
		return nil, wrap(s, start, "assertion", err)
	}
	return &cst.SubAssertion{Range_: rangeFrom(s, start), Account: account, Balance: balance, Commodity: commodity}, nil
}

func parseTransaction(s *scanner.Scanner, start int, date *cst.Date, addon cst.Addon) (*cst.Transaction, error) {
	desc, err := parseQuotedString(s)
	if err != nil {
		return nil, wrap(s, start, "transaction", err)
	}
	if _, err := s.ReadRestOfLine(); err != nil {
		return nil, wrap(s, start, "transaction", err)
	}
	var bookings []*cst.Booking
	for lineStartsWithAlnum(s) {
		b, err := parseBooking(s)
		if err != nil {
			return nil, wrap(s, start, "transaction", err)
		}
		bookings = append(bookings, b)
	}
	if len(bookings) == 0 {
		return nil, wrap(s, start, "transaction", &scanner.Error{
			Pos: s.Buffer().Position(s.Pos()), Expected: "at least one booking", Found: foundAt(s),
		})
	}
	return &cst.Transaction{Range_: rangeFrom(s, start), Addon: addon, Date: date, Description: desc, Bookings: bookings}, nil
}

func parseBooking(s *scanner.Scanner) (*cst.Booking, error) {
	start := s.Pos()
	account, err := parseAccount(s)
	if err != nil {
		return nil, wrap(s, start, "booking", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "booking", err)
	}
	other, err := parseAccount(s)
	if err != nil {
		return nil, wrap(s, start, "booking", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "booking", err)
	}
	quantity, err := parseDecimal(s)
	if err != nil {
		return nil, wrap(s, start, "booking", err)
	}
	if _, err := s.ReadSpace1(); err != nil {
		return nil, wrap(s, start, "booking", err)
	}
	commodity, err := parseCommodity(s)
	if err != nil {
		return nil, wrap(s, start, "booking", err)
	}
	if _, err := s.ReadRestOfLine(); err != nil {
		return nil, wrap(s, start, "booking", err)
	}
	return &cst.Booking{Range_: rangeFrom(s, start), Account: account, Other: other, Quantity: quantity, Commodity: commodity}, nil
}

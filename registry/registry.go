// Package registry interns account and commodity names into small, stable
// integer ids so that every later pipeline stage (journal, valuation,
// reporting) can compare and hash identities in O(1) instead of carrying
// strings around. One Registry is shared for the life of a run.
package registry

import (
	"fmt"
	"regexp"

	"github.com/solenne-dev/ledgerfold/ledgererrors"
	"github.com/solenne-dev/ledgerfold/source"
)

// AccountType is one of the five account categories a name's first segment
// must name.
type AccountType int

const (
	Assets AccountType = iota
	Liabilities
	Equity
	Income
	Expenses
)

func (t AccountType) String() string {
	switch t {
	case Assets:
		return "Assets"
	case Liabilities:
		return "Liabilities"
	case Equity:
		return "Equity"
	case Income:
		return "Income"
	case Expenses:
		return "Expenses"
	default:
		return "Unknown"
	}
}

// ParseAccountType maps the leading segment of an account name to its
// AccountType, reporting false for anything else.
func ParseAccountType(s string) (AccountType, bool) {
	switch s {
	case "Assets":
		return Assets, true
	case "Liabilities":
		return Liabilities, true
	case "Equity":
		return Equity, true
	case "Income":
		return Income, true
	case "Expenses":
		return Expenses, true
	}
	return 0, false
}

// AccountID is a stable, dense integer identifying an interned account
// name for the life of the Registry.
type AccountID int

// CommodityID is a stable, dense integer identifying an interned commodity
// name for the life of the Registry.
type CommodityID int

var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Registry owns the account and commodity interning tables. It is mutated
// only during parsing and analysis; afterwards it is effectively read-only
// and safe to share by reference across every subsequent pass.
type Registry struct {
	accountNames []string
	accountIDs   map[string]AccountID
	accountTypes []AccountType
	accountSegs  [][]string

	commodityNames []string
	commodityIDs   map[string]CommodityID
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		accountIDs:   make(map[string]AccountID),
		commodityIDs: make(map[string]CommodityID),
	}
}

// InternAccount interns name, validating that it is Type(:Segment)* with
// Type one of the five account categories and every segment non-empty and
// alphanumeric. Interning the same name twice returns the same id.
func (r *Registry) InternAccount(name string, pos source.Position) (AccountID, error) {
	if id, ok := r.accountIDs[name]; ok {
		return id, nil
	}

	segs, err := splitAccount(name)
	if err != nil {
		return 0, &ledgererrors.ModelError{Pos: pos, Kind: ledgererrors.ModelErrorInvalidAccount, Message: err.Error()}
	}
	typ, ok := ParseAccountType(segs[0])
	if !ok {
		return 0, &ledgererrors.ModelError{
			Pos: pos, Kind: ledgererrors.ModelErrorInvalidAccountType,
			Message: fmt.Sprintf("unknown account type %q", segs[0]),
		}
	}

	id := AccountID(len(r.accountNames))
	r.accountNames = append(r.accountNames, name)
	r.accountTypes = append(r.accountTypes, typ)
	r.accountSegs = append(r.accountSegs, segs)
	r.accountIDs[name] = id
	return id, nil
}

// MustInternAccount interns a well-known internal account name (e.g.
// "Income:Valuation") that is guaranteed valid, panicking if it is not:
// a programmer error, not a user-facing one.
func (r *Registry) MustInternAccount(name string) AccountID {
	id, err := r.InternAccount(name, source.Position{})
	if err != nil {
		panic(fmt.Sprintf("registry: invalid builtin account %q: %v", name, err))
	}
	return id
}

// InternCommodity interns name, validating that it is non-empty and
// alphanumeric.
func (r *Registry) InternCommodity(name string, pos source.Position) (CommodityID, error) {
	if id, ok := r.commodityIDs[name]; ok {
		return id, nil
	}
	if !segmentPattern.MatchString(name) {
		return 0, &ledgererrors.ModelError{
			Pos: pos, Kind: ledgererrors.ModelErrorInvalidCommodity,
			Message: fmt.Sprintf("invalid commodity name %q", name),
		}
	}
	id := CommodityID(len(r.commodityNames))
	r.commodityNames = append(r.commodityNames, name)
	r.commodityIDs[name] = id
	return id, nil
}

// AccountName returns the interned name for id; it always round-trips with
// the id InternAccount returned for that name.
func (r *Registry) AccountName(id AccountID) string { return r.accountNames[id] }

// AccountTypeOf returns the account category id was interned under.
func (r *Registry) AccountTypeOf(id AccountID) AccountType { return r.accountTypes[id] }

// AccountSegments returns the colon-separated segments of id's name,
// including the leading type.
func (r *Registry) AccountSegments(id AccountID) []string { return r.accountSegs[id] }

// CommodityName returns the interned name for id.
func (r *Registry) CommodityName(id CommodityID) string { return r.commodityNames[id] }

// NumAccounts reports how many distinct accounts have been interned.
func (r *Registry) NumAccounts() int { return len(r.accountNames) }

// NumCommodities reports how many distinct commodities have been interned.
func (r *Registry) NumCommodities() int { return len(r.commodityNames) }

func splitAccount(name string) ([]string, error) {
	if name == "" {
		return nil, fmt.Errorf("empty account name")
	}
	var segs []string
	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == ':' {
			seg := name[start:i]
			if seg == "" || !segmentPattern.MatchString(seg) {
				return nil, fmt.Errorf("invalid account segment %q in %q", seg, name)
			}
			segs = append(segs, seg)
			start = i + 1
		}
	}
	return segs, nil
}

package report

import (
	"regexp"
	"strings"

	"github.com/solenne-dev/ledgerfold/registry"
	"github.com/solenne-dev/ledgerfold/source"
)

// ShortenRule maps accounts whose full name Pattern matches (an unanchored
// match, as regexp.MatchString) down to Depth leading segments. A Drop rule causes a matching account to be
// excluded from aggregation entirely.
type ShortenRule struct {
	Pattern *regexp.Regexp
	Depth   int
	Drop    bool
}

// Shortener applies the first matching rule (in order) to an account name
// prior to aggregation, registering the truncated name as its own account
// id so multiple original accounts can collapse onto one shortened row.
type Shortener struct {
	rules []ShortenRule
	cache map[registry.AccountID]shortenResult
}

type shortenResult struct {
	id   registry.AccountID
	keep bool
}

// NewShortener creates a Shortener evaluating rules in the given order.
func NewShortener(rules []ShortenRule) *Shortener {
	return &Shortener{rules: rules, cache: make(map[registry.AccountID]shortenResult)}
}

// Shorten maps account through the first matching rule, returning the
// (possibly new) account id to aggregate under, and keep=false if the
// account should be dropped from the report entirely.
func (s *Shortener) Shorten(reg *registry.Registry, account registry.AccountID) (registry.AccountID, bool) {
	if cached, ok := s.cache[account]; ok {
		return cached.id, cached.keep
	}

	name := reg.AccountName(account)
	for _, rule := range s.rules {
		if !rule.Pattern.MatchString(name) {
			continue
		}
		if rule.Drop {
			s.cache[account] = shortenResult{keep: false}
			return 0, false
		}
		truncated := truncate(name, rule.Depth)
		// The truncated name is always a well-formed prefix of a name the
		// registry already validated, so interning it cannot fail.
		id, _ := reg.InternAccount(truncated, source.Position{})
		s.cache[account] = shortenResult{id: id, keep: true}
		return id, true
	}

	s.cache[account] = shortenResult{id: account, keep: true}
	return account, true
}

func truncate(name string, depth int) string {
	segs := strings.Split(name, ":")
	if depth < len(segs) {
		segs = segs[:depth]
	}
	return strings.Join(segs, ":")
}

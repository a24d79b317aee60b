package report

import (
	"context"
	"sort"
	"time"

	"github.com/solenne-dev/ledgerfold/journal"
	"github.com/solenne-dev/ledgerfold/period"
	"github.com/solenne-dev/ledgerfold/registry"
	"github.com/solenne-dev/ledgerfold/telemetry"
)

// Node is one segment of an account name (splitting on ":"), carrying the
// Position accumulated directly against accounts ending at this node.
type Node struct {
	Segment  string
	Children map[string]*Node
	Position *Position
}

func newNode(segment string) *Node {
	return &Node{Segment: segment, Children: make(map[string]*Node), Position: newPosition()}
}

// SortedChildren returns this node's children ordered by segment name, for
// deterministic rendering.
func (n *Node) SortedChildren() []*Node {
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	children := make([]*Node, len(names))
	for i, name := range names {
		children[i] = n.Children[name]
	}
	return children
}

// Sum returns the additive combination of n's own Position with every
// descendant's, used to compute subtree totals for rendering.
func (n *Node) Sum() *Position {
	sum := newPosition()
	sum.Add(n.Position)
	for _, child := range n.SortedChildren() {
		sum.Add(child.Sum())
	}
	return sum
}

// Tree is the root of the account segment tree.
type Tree struct {
	root *Node
}

// NewTree creates an empty segment tree.
func NewTree() *Tree {
	return &Tree{root: newNode("")}
}

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// Child looks up a direct child of the root by its leading segment (e.g.
// "Assets"), returning nil if no account under that type was observed.
func (t *Tree) Child(segment string) *Node {
	return t.root.Children[segment]
}

func (t *Tree) nodeFor(segments []string) *Node {
	cur := t.root
	for _, seg := range segments {
		child, ok := cur.Children[seg]
		if !ok {
			child = newNode(seg)
			cur.Children[seg] = child
		}
		cur = child
	}
	return cur
}

// CommodityFilter reports whether a commodity (by name) should contribute
// to aggregation; nil means every commodity is included.
type CommodityFilter func(name string) bool

// Aggregate traverses every booking across j's days (including synthesised
// gain transactions), aligns each booking's date to a partition boundary
// via aligner, maps its account through shortener, and accumulates
// quantities and values into the segment tree. Bookings whose date
// falls after the last partition boundary are dropped. filter,
// if non-nil, restricts aggregation to commodities it accepts (--show-commodities).
func Aggregate(ctx context.Context, j *journal.Journal, aligner *period.Aligner, shortener *Shortener, filter CommodityFilter) *Tree {
	timer := telemetry.FromContext(ctx).Start("report.aggregate")
	defer timer.End()

	tree := NewTree()
	for _, day := range j.Days() {
		boundary, ok := aligner.Align(day.Date)
		if !ok {
			continue
		}
		aggregateTransactions(tree, j.Registry, shortener, filter, day.Transactions, boundary)
		aggregateTransactions(tree, j.Registry, shortener, filter, day.Gains(), boundary)
	}
	return tree
}

func aggregateTransactions(tree *Tree, reg *registry.Registry, shortener *Shortener, filter CommodityFilter, txns []*journal.Transaction, boundary time.Time) {
	for _, tx := range txns {
		for _, b := range tx.Bookings {
			if filter != nil && !filter(reg.CommodityName(b.Commodity)) {
				continue
			}
			account := b.Account
			if shortener != nil {
				shortened, keep := shortener.Shorten(reg, account)
				if !keep {
					continue
				}
				account = shortened
			}
			node := tree.nodeFor(reg.AccountSegments(account))
			node.Position.addQuantity(b.Commodity, boundary, b.Quantity)
			if b.Value != nil {
				node.Position.addValue(b.Commodity, boundary, *b.Value)
			}
		}
	}
}

package tree

import (
	"slices"
	"time"

	"golang.org/x/text/collate"
	xlanguage "golang.org/x/text/language"
)

// Sort returns a sorted deep copy of forest; the input is left untouched.
// Name order uses locale collation with folders and files intermixed.
// Date order is newest first; a folder's date is that of its newest descendant
// file, and folders without dated files sort last. Equal keys keep input order.
func Sort(forest []*Node, by SortBy) []*Node {
	var cmp func(a, b *Node) int
	switch by {
	case SortByDate:
		dates := make(map[*Node]time.Time)
		cmp = func(a, b *Node) int {
			return effectiveDate(b, dates).Compare(effectiveDate(a, dates))
		}
	default:
		collator := collate.New(xlanguage.Und)
		cmp = func(a, b *Node) int {
			return collator.CompareString(a.Name, b.Name)
		}
	}
	return sortLevel(forest, cmp)
}

func sortLevel(nodes []*Node, cmp func(a, b *Node) int) []*Node {
	if nodes == nil {
		return nil
	}
	sorted := make([]*Node, len(nodes))
	for i, n := range nodes {
		c := clone(n)
		if !n.IsLeaf {
			c.Children = sortLevel(n.Children, cmp)
		}
		sorted[i] = c
	}
	slices.SortStableFunc(sorted, cmp)
	return sorted
}

// effectiveDate memoizes folder dates so each subtree is walked once per level.
func effectiveDate(n *Node, memo map[*Node]time.Time) time.Time {
	if n.IsLeaf {
		return n.Metadata.LastModifiedAt
	}
	if d, ok := memo[n]; ok {
		return d
	}
	var newest time.Time
	for _, child := range n.Children {
		if d := effectiveDate(child, memo); d.After(newest) {
			newest = d
		}
	}
	memo[n] = newest
	return newest
}

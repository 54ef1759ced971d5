package tree

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter keeps nodes whose name contains query, ignoring case, plus every
// ancestor of such a node. Folder counts are not recomputed. An empty query
// returns forest itself.
func Filter(forest []*Node, query string) []*Node {
	if query == "" {
		return forest
	}
	needle := strings.ToLower(query)
	return prune(forest, func(n *Node) bool {
		return strings.Contains(strings.ToLower(n.Name), needle)
	})
}

// FilterGlob keeps file nodes whose full path matches a doublestar pattern,
// plus their ancestors. An empty pattern returns forest itself.
func FilterGlob(forest []*Node, pattern string) ([]*Node, error) {
	if pattern == "" {
		return forest, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	return prune(forest, func(n *Node) bool {
		if !n.IsLeaf {
			return false
		}
		ok, _ := doublestar.Match(pattern, n.ID)
		return ok
	}), nil
}

// prune copies the nodes for which keep holds, or which have a kept descendant.
// A matching folder keeps only its matching descendants.
func prune(nodes []*Node, keep func(*Node) bool) []*Node {
	var out []*Node
	for _, n := range nodes {
		var children []*Node
		if !n.IsLeaf {
			children = prune(n.Children, keep)
		}
		if len(children) == 0 && !keep(n) {
			continue
		}
		c := clone(n)
		if !n.IsLeaf {
			c.Children = children
			if c.Children == nil {
				c.Children = []*Node{}
			}
		}
		out = append(out, c)
	}
	return out
}

package tree

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Node is one folder or file in the hierarchy built from a flat path list.
// ID is the full '/'-joined path, so it stays stable across rebuilds.
type Node struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	IsLeaf   bool     `json:"isLeaf"`
	Children []*Node  `json:"children,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// MarshalJSON always emits children for folders, even when empty, and never
// for leaves.
func (n Node) MarshalJSON() ([]byte, error) {
	type plain Node
	if n.IsLeaf {
		return json.Marshal(struct {
			plain
			Children []*Node `json:"children,omitempty"`
		}{plain: plain(n)})
	}
	children := n.Children
	if children == nil {
		children = []*Node{}
	}
	return json.Marshal(struct {
		plain
		Children []*Node `json:"children"`
	}{plain: plain(n), Children: children})
}

// Metadata carries what the tree view shows next to a node.
// Dates are set on leaves only, DescendantFileCount on folders only.
type Metadata struct {
	LastModifiedDate    string    `json:"lastModifiedDate,omitempty"`
	LastModifiedAt      time.Time `json:"lastModifiedAt,omitzero"`
	DescendantFileCount int       `json:"descendantFileCount,omitempty"`
	Icon                string    `json:"icon,omitempty"`
}

// SortBy selects the ordering applied by Sort.
type SortBy string

const (
	SortByName SortBy = "name"
	SortByDate SortBy = "date"
)

// ParseSortBy accepts "name" or "date" in any case; empty means name.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByName:
		return SortByName, nil
	case SortByDate:
		return SortByDate, nil
	}
	return "", fmt.Errorf("unknown sort order %q (want name or date)", s)
}

// CountLeaves returns the number of file nodes in the forest.
func CountLeaves(forest []*Node) int {
	count := 0
	for _, n := range forest {
		if n.IsLeaf {
			count++
			continue
		}
		count += CountLeaves(n.Children)
	}
	return count
}

// clone copies n without its children.
func clone(n *Node) *Node {
	c := *n
	c.Children = nil
	return &c
}

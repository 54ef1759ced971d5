package tree

import (
	"strings"
	"time"

	"github.com/lexandro/authortree/gitquery"
	"github.com/lexandro/authortree/language"
)

// dateLayouts are tried, in order, when an AuthoredFile has no parsed timestamp.
var dateLayouts = []string{time.RFC3339, "1/2/2006", "2006-01-02"}

// Build converts a flat file list into a forest of folder and file nodes.
// Sibling order follows first occurrence in files; paths sharing a prefix share
// the folder node. Malformed paths are not rejected and yield odd but valid trees.
func Build(files []gitquery.AuthoredFile) []*Node {
	// Pass 1: leaf counts for every proper prefix.
	folderCounts := make(map[string]int)
	for _, file := range files {
		parts := strings.Split(file.Path, "/")
		for i := 1; i < len(parts); i++ {
			folderCounts[strings.Join(parts[:i], "/")]++
		}
	}

	// Pass 2: one node per distinct prefix.
	var roots []*Node
	nodes := make(map[string]*Node)
	for _, file := range files {
		parts := strings.Split(file.Path, "/")
		for i := range parts {
			id := strings.Join(parts[:i+1], "/")
			if _, exists := nodes[id]; exists {
				continue
			}

			isLeaf := i == len(parts)-1
			node := &Node{ID: id, Name: parts[i], IsLeaf: isLeaf}
			if isLeaf {
				node.Metadata = Metadata{
					LastModifiedDate: file.LastModified,
					LastModifiedAt:   fileTime(file),
					Icon:             language.IconFor(parts[i], false),
				}
			} else {
				node.Children = []*Node{}
				node.Metadata = Metadata{
					DescendantFileCount: folderCounts[id],
					Icon:                language.IconFor(parts[i], true),
				}
			}
			nodes[id] = node

			if i == 0 {
				roots = append(roots, node)
				continue
			}
			// A file whose path is also a folder prefix cannot hold children.
			if parent := nodes[strings.Join(parts[:i], "/")]; parent != nil && !parent.IsLeaf {
				parent.Children = append(parent.Children, node)
			}
		}
	}
	return roots
}

func fileTime(file gitquery.AuthoredFile) time.Time {
	if !file.LastModifiedAt.IsZero() {
		return file.LastModifiedAt
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, file.LastModified); err == nil {
			return t
		}
	}
	return time.Time{}
}

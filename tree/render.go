package tree

import (
	"fmt"
	"io"
	"strings"
)

// Render writes forest as an indented text tree. Folders show their file
// count, files their last modified date.
func Render(w io.Writer, forest []*Node) error {
	var builder strings.Builder
	renderLevel(&builder, forest, "")
	_, err := io.WriteString(w, builder.String())
	return err
}

// String renders forest into a string.
func String(forest []*Node) string {
	var builder strings.Builder
	renderLevel(&builder, forest, "")
	return builder.String()
}

func renderLevel(builder *strings.Builder, nodes []*Node, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}

		if n.IsLeaf {
			if n.Metadata.LastModifiedDate != "" {
				fmt.Fprintf(builder, "%s%s%s  (%s)\n", prefix, branch, n.Name, n.Metadata.LastModifiedDate)
			} else {
				fmt.Fprintf(builder, "%s%s%s\n", prefix, branch, n.Name)
			}
			continue
		}

		fmt.Fprintf(builder, "%s%s%s/  [%d]\n", prefix, branch, n.Name, n.Metadata.DescendantFileCount)
		renderLevel(builder, n.Children, prefix+indent)
	}
}

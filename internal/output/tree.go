package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marcus/catalog/internal/models"
)

// TreeNode is a node of a rendered tree
type TreeNode struct {
	Label    string
	Detail   string
	Children []TreeNode
}

// TreeRenderOptions configures tree rendering
type TreeRenderOptions struct {
	MaxDepth   int // 0 = unlimited
	ShowDetail bool
	ShowCount  bool // append the child count to nodes with children
}

// RenderTree renders the children of root (not root itself)
func RenderTree(root TreeNode, opts TreeRenderOptions) string {
	return strings.Join(renderTreeNodes(root.Children, opts, 0, ""), "\n")
}

// RenderTreeLines renders multiple root nodes and returns individual lines
func RenderTreeLines(roots []TreeNode, opts TreeRenderOptions) []string {
	return renderTreeNodes(roots, opts, 0, "")
}

func renderTreeNodes(nodes []TreeNode, opts TreeRenderOptions, depth int, prefix string) []string {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return nil
	}

	var lines []string
	for i, node := range nodes {
		isLast := i == len(nodes)-1

		connector := "\u251c\u2500\u2500 " // ├──
		if isLast {
			connector = "\u2514\u2500\u2500 " // └──
		}

		line := prefix + connector + node.Label
		if opts.ShowCount && len(node.Children) > 0 {
			line += fmt.Sprintf(" (%d)", len(node.Children))
		}
		if opts.ShowDetail && node.Detail != "" {
			line += " — " + node.Detail
		}
		lines = append(lines, line)

		childPrefix := prefix
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "\u2502   " // │
		}
		lines = append(lines, renderTreeNodes(node.Children, opts, depth+1, childPrefix)...)
	}
	return lines
}

// CategoryTree groups items under their category. Categories are sorted by
// name; items keep their input order.
func CategoryTree(items []models.Item) []TreeNode {
	idx := map[string]int{}
	var roots []TreeNode
	for _, it := range items {
		cat := it.Category
		if cat == "" {
			cat = "(none)"
		}
		i, ok := idx[cat]
		if !ok {
			i = len(roots)
			idx[cat] = i
			roots = append(roots, TreeNode{Label: cat})
		}
		roots[i].Children = append(roots[i].Children, itemNode(it))
	}
	sort.SliceStable(roots, func(a, b int) bool { return roots[a].Label < roots[b].Label })
	return roots
}

func itemNode(it models.Item) TreeNode {
	detail := it.Description
	if i := strings.IndexByte(detail, '\n'); i >= 0 {
		detail = detail[:i]
	}
	return TreeNode{
		Label:  fmt.Sprintf("#%d: %s", it.ID, it.Title),
		Detail: detail,
	}
}

// ItemLine formats one item for flat listings
func ItemLine(it models.Item) string {
	line := fmt.Sprintf("#%-5d %s", it.ID, it.Title)
	if it.Category != "" {
		line += " [" + it.Category + "]"
	}
	if it.HasImage() {
		line += " (image)"
	}
	return line
}

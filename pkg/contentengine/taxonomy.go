package contentengine

import (
	"github.com/google/uuid"
)

// BuildCategoryTree assembles the category forest from a flat list. Roots
// are categories with no parent; each node's children are selected
// recursively by parent id. A non-empty categoryType pre-filters the list.
//
// The reader does no cycle detection: the parent chain is kept acyclic at
// write time, so a cycle cannot be present in stored data.
func BuildCategoryTree(categories []*Category, categoryType string) []*CategoryNode {
	var pool []*Category
	if categoryType == "" {
		pool = categories
	} else {
		for _, c := range categories {
			if c.Type == categoryType {
				pool = append(pool, c)
			}
		}
	}

	children := make(map[uuid.UUID][]*Category, len(pool))
	var roots []*Category
	for _, c := range pool {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	nodes := make([]*CategoryNode, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, buildNode(root, children))
	}
	return nodes
}

func buildNode(category *Category, children map[uuid.UUID][]*Category) *CategoryNode {
	node := &CategoryNode{Category: *category, Children: []*CategoryNode{}}
	for _, child := range children[category.ID] {
		node.Children = append(node.Children, buildNode(child, children))
	}
	return node
}

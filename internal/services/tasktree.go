package services

import (
	"github.com/fundcraft/backstage/internal/models"
	"github.com/google/uuid"
)

// TaskNode wraps a task with its resolved children.
type TaskNode struct {
	models.Task
	Children []*TaskNode `json:"children"`
}

// BuildTaskTree turns a flat task list, pre-sorted by order_index ascending,
// into a forest. Two passes: the first indexes every task by id, the second
// attaches each task to its parent when the parent id resolves within the
// input set, and promotes it to root otherwise. An orphaned parent reference
// is therefore silently promoted, not rejected, and no cycle detection is
// performed; both passes preserve input order, so sibling order inherits the
// caller's sort and ties keep their input positions.
func BuildTaskTree(tasks []models.Task) []*TaskNode {
	nodes := make(map[uuid.UUID]*TaskNode, len(tasks))
	ordered := make([]*TaskNode, 0, len(tasks))
	for i := range tasks {
		n := &TaskNode{Task: tasks[i], Children: []*TaskNode{}}
		nodes[tasks[i].ID] = n
		ordered = append(ordered, n)
	}

	roots := make([]*TaskNode, 0, len(tasks))
	for _, n := range ordered {
		if n.ParentID != nil {
			if parent, ok := nodes[*n.ParentID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

// CountTree returns the number of nodes reachable from the given roots.
func CountTree(roots []*TaskNode) int {
	total := 0
	for _, r := range roots {
		total += 1 + CountTree(r.Children)
	}
	return total
}

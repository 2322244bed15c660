package services

import (
	"testing"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func flatTask(title string, parentID *uuid.UUID, orderIndex int) models.Task {
	return models.Task{ID: uuid.New(), Title: title, ParentID: parentID, OrderIndex: orderIndex}
}

func TestBuildTaskTreeNestsChildren(t *testing.T) {
	root1 := flatTask("first", nil, 0)
	child := flatTask("child", &root1.ID, 0)
	root2 := flatTask("second", nil, 1)

	roots := BuildTaskTree([]models.Task{root1, child, root2})

	require.Len(t, roots, 2)
	require.Equal(t, "first", roots[0].Title)
	require.Equal(t, "second", roots[1].Title)
	require.Len(t, roots[0].Children, 1)
	require.Equal(t, "child", roots[0].Children[0].Title)
	require.Empty(t, roots[1].Children)
	require.Equal(t, 3, CountTree(roots))
}

func TestBuildTaskTreePromotesOrphans(t *testing.T) {
	missing := uuid.New()
	root := flatTask("root", nil, 0)
	orphan := flatTask("orphan", &missing, 1)

	roots := BuildTaskTree([]models.Task{root, orphan})

	require.Len(t, roots, 2)
	require.Equal(t, "orphan", roots[1].Title)
	require.Empty(t, roots[1].Children)
}

func TestBuildTaskTreePreservesInputOrder(t *testing.T) {
	parent := flatTask("parent", nil, 0)
	c1 := flatTask("c1", &parent.ID, 0)
	c2 := flatTask("c2", &parent.ID, 1)
	c3 := flatTask("c3", &parent.ID, 2)

	roots := BuildTaskTree([]models.Task{parent, c1, c2, c3})

	require.Len(t, roots, 1)
	titles := make([]string, 0, 3)
	for _, c := range roots[0].Children {
		titles = append(titles, c.Title)
	}
	require.Equal(t, []string{"c1", "c2", "c3"}, titles)
}

func TestBuildTaskTreeEmptyInput(t *testing.T) {
	require.Empty(t, BuildTaskTree(nil))
}

// A child appearing before its parent in the input must still attach, since
// the first pass indexes every task before any parent lookup happens.
func TestBuildTaskTreeChildBeforeParent(t *testing.T) {
	parent := flatTask("parent", nil, 1)
	child := flatTask("child", &parent.ID, 0)

	roots := BuildTaskTree([]models.Task{child, parent})

	require.Len(t, roots, 1)
	require.Equal(t, "parent", roots[0].Title)
	require.Len(t, roots[0].Children, 1)
	require.Equal(t, "child", roots[0].Children[0].Title)
}

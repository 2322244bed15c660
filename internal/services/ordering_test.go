package services

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type indexWrite struct {
	id    uuid.UUID
	index int
}

type fakeOrderWriter struct {
	writes    []indexWrite
	failAfter int // fail the nth write (1-based); 0 never fails
}

func (f *fakeOrderWriter) UpdateOrderIndex(ctx context.Context, id uuid.UUID, index int) error {
	if f.failAfter > 0 && len(f.writes)+1 == f.failAfter {
		return errors.New("write failed")
	}
	f.writes = append(f.writes, indexWrite{id: id, index: index})
	return nil
}

func seqItems(indexes ...int) []models.Task {
	items := make([]models.Task, len(indexes))
	for i, idx := range indexes {
		items[i] = models.Task{ID: uuid.New(), OrderIndex: idx}
	}
	return items
}

func TestNextOrderIndex(t *testing.T) {
	require.Equal(t, 0, NextOrderIndex([]models.Task{}))
	require.Equal(t, 3, NextOrderIndex(seqItems(0, 1, 2)))
	// gaps do not get reused; append always goes past the maximum
	require.Equal(t, 8, NextOrderIndex(seqItems(0, 3, 7)))
}

func TestMoveUpWritesPredecessorFirst(t *testing.T) {
	items := seqItems(0, 1, 2)
	w := &fakeOrderWriter{}

	require.NoError(t, MoveUp(context.Background(), w, items, 1))

	require.Len(t, w.writes, 2)
	require.Equal(t, indexWrite{id: items[0].ID, index: 1}, w.writes[0])
	require.Equal(t, indexWrite{id: items[1].ID, index: 0}, w.writes[1])
}

func TestMoveDownWritesSuccessorFirst(t *testing.T) {
	items := seqItems(0, 1, 2)
	w := &fakeOrderWriter{}

	require.NoError(t, MoveDown(context.Background(), w, items, 1))

	require.Len(t, w.writes, 2)
	require.Equal(t, indexWrite{id: items[2].ID, index: 1}, w.writes[0])
	require.Equal(t, indexWrite{id: items[1].ID, index: 2}, w.writes[1])
}

func TestMoveBoundariesAreNoops(t *testing.T) {
	items := seqItems(0, 1, 2)
	w := &fakeOrderWriter{}

	require.NoError(t, MoveUp(context.Background(), w, items, 0))
	require.NoError(t, MoveDown(context.Background(), w, items, len(items)-1))
	require.NoError(t, MoveUp(context.Background(), w, items, -1))
	require.NoError(t, MoveDown(context.Background(), w, items, len(items)))
	require.Empty(t, w.writes)
}

func TestMoveUpFirstWriteFailureLeavesOneWrite(t *testing.T) {
	items := seqItems(0, 1)
	w := &fakeOrderWriter{failAfter: 2}

	err := MoveUp(context.Background(), w, items, 1)

	require.Error(t, err)
	// predecessor write landed, item write did not; the duplicate index is
	// resolved visually by the list's secondary sort keys
	require.Len(t, w.writes, 1)
	require.Equal(t, indexWrite{id: items[0].ID, index: 1}, w.writes[0])
}

func applyWrites(items []models.Task, writes []indexWrite) {
	for _, wr := range writes {
		for i := range items {
			if items[i].ID == wr.id {
				items[i].OrderIndex = wr.index
			}
		}
	}
}

func TestMoveUpThenDownRestoresAssignments(t *testing.T) {
	items := seqItems(0, 1, 2)
	original := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		original[it.ID] = it.OrderIndex
	}
	movedID := items[1].ID
	ctx := context.Background()

	w := &fakeOrderWriter{}
	require.NoError(t, MoveUp(ctx, w, items, 1))
	applyWrites(items, w.writes)
	sort.Slice(items, func(i, j int) bool { return items[i].OrderIndex < items[j].OrderIndex })

	w.writes = nil
	require.NoError(t, MoveDown(ctx, w, items, positionOf(items, movedID)))
	applyWrites(items, w.writes)

	// each row is back on the index it started with
	for _, it := range items {
		require.Equal(t, original[it.ID], it.OrderIndex)
	}
}

func TestPositionOf(t *testing.T) {
	items := seqItems(0, 1, 2)
	require.Equal(t, 1, positionOf(items, items[1].ID))
	require.Equal(t, -1, positionOf(items, uuid.New()))
}

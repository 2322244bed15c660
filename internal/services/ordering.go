package services

import (
	"context"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/google/uuid"
)

// OrderWriter persists a single order_index value. Implemented by the
// orderable repositories; kept minimal so a future server-side atomic swap can
// replace the two-write scheme below without touching callers.
type OrderWriter interface {
	UpdateOrderIndex(ctx context.Context, id uuid.UUID, index int) error
}

// NextOrderIndex returns the append position for a sibling group: one past the
// maximum existing index, or 0 for an empty group. The caller reads the group
// and then writes the new row; the read-modify-write is deliberately
// unsynchronized (single writer per project in practice).
func NextOrderIndex[T models.Sequenced](items []T) int {
	next := 0
	for _, it := range items {
		if it.GetOrderIndex() >= next {
			next = it.GetOrderIndex() + 1
		}
	}
	return next
}

// MoveUp exchanges order_index between the item at pos and its predecessor in
// an already-sorted sibling group. Position 0 is a no-op. The swap is two
// independent writes, predecessor first; a failure between them leaves a
// transient duplicate index that the next full reload renders in a stable
// order via secondary sort keys.
func MoveUp[T models.Sequenced](ctx context.Context, w OrderWriter, items []T, pos int) error {
	if pos <= 0 || pos >= len(items) {
		return nil
	}
	prev, cur := items[pos-1], items[pos]
	if err := w.UpdateOrderIndex(ctx, prev.GetID(), cur.GetOrderIndex()); err != nil {
		return err
	}
	return w.UpdateOrderIndex(ctx, cur.GetID(), prev.GetOrderIndex())
}

// MoveDown is the symmetric operation; the last position is a no-op.
func MoveDown[T models.Sequenced](ctx context.Context, w OrderWriter, items []T, pos int) error {
	if pos < 0 || pos >= len(items)-1 {
		return nil
	}
	next, cur := items[pos+1], items[pos]
	if err := w.UpdateOrderIndex(ctx, next.GetID(), cur.GetOrderIndex()); err != nil {
		return err
	}
	return w.UpdateOrderIndex(ctx, cur.GetID(), next.GetOrderIndex())
}

// positionOf locates id within a sorted sibling group, -1 when absent.
func positionOf[T models.Sequenced](items []T, id uuid.UUID) int {
	for i, it := range items {
		if it.GetID() == id {
			return i
		}
	}
	return -1
}

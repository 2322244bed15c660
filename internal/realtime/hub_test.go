package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversMatchingEvents(t *testing.T) {
	hub := NewHub()
	projectID := uuid.New()

	sub := hub.Subscribe("tasks", projectID, 4)
	defer hub.Unsubscribe(sub)

	hub.Publish(Event{Table: "tasks", Action: ActionInsert, ProjectID: projectID})
	hub.Publish(Event{Table: "meetings", Action: ActionInsert, ProjectID: projectID})
	hub.Publish(Event{Table: "tasks", Action: ActionInsert, ProjectID: uuid.New()})

	require.Len(t, sub.Events(), 1)
	ev := <-sub.Events()
	require.Equal(t, "tasks", ev.Table)
	require.Equal(t, ActionInsert, ev.Action)
	require.Equal(t, projectID, ev.ProjectID)
}

func TestHubWildcardSubscription(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("", uuid.Nil, 8)
	defer hub.Unsubscribe(sub)

	hub.Publish(Event{Table: "tasks", Action: ActionUpdate, ProjectID: uuid.New()})
	hub.Publish(Event{Table: "returns", Action: ActionDelete, ProjectID: uuid.New()})

	require.Len(t, sub.Events(), 2)
}

func TestHubUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("", uuid.Nil, 1)
	hub.Unsubscribe(sub)

	_, open := <-sub.Events()
	require.False(t, open)

	// double unsubscribe must not panic
	hub.Unsubscribe(sub)
}

func TestHubDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("", uuid.Nil, 1)
	defer hub.Unsubscribe(sub)

	hub.Publish(Event{Table: "tasks", Action: ActionInsert})
	hub.Publish(Event{Table: "tasks", Action: ActionInsert}) // dropped, no block

	require.Len(t, sub.Events(), 1)
}

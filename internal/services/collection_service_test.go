package services

import (
	"context"
	"testing"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/repository"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestCollectionCreateAppendsAndMovePersists(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	project := seedProject(t, db, user.ID)
	svc := NewCollectionService[models.Meeting]("meetings", db, repository.NewProjectRepository(db), nil)
	ctx := context.Background()

	var meetings []*models.Meeting
	for _, title := range []string{"kickoff", "review", "retro"} {
		m := &models.Meeting{ProjectID: project.ID, UserID: user.ID, Title: title}
		require.NoError(t, svc.Create(ctx, user.ID, m))
		meetings = append(meetings, m)
	}
	require.Equal(t, 0, meetings[0].OrderIndex)
	require.Equal(t, 1, meetings[1].OrderIndex)
	require.Equal(t, 2, meetings[2].OrderIndex)

	refreshed, err := svc.MoveUp(ctx, user.ID, meetings[1].ID)
	require.NoError(t, err)
	require.Equal(t, "review", refreshed[0].Title)
	require.Equal(t, "kickoff", refreshed[1].Title)

	// first row up is a no-op
	unchanged, err := svc.MoveUp(ctx, user.ID, refreshed[0].ID)
	require.NoError(t, err)
	require.Equal(t, "review", unchanged[0].Title)
}

func TestCollectionBlocksCrossProjectMove(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	project := seedProject(t, db, user.ID)
	other := seedProject(t, db, user.ID)
	svc := NewCollectionService[models.Return]("returns", db, repository.NewProjectRepository(db), nil)
	ctx := context.Background()

	row := &models.Return{ProjectID: project.ID, UserID: user.ID, Title: "tier", Amount: 500}
	require.NoError(t, svc.Create(ctx, user.ID, row))

	moved := *row
	moved.ProjectID = other.ID
	err := svc.Update(ctx, user.ID, &moved)
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestRecordServiceOrdersByCreation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	project := seedProject(t, db, user.ID)
	svc := NewRecordService[models.Document]("documents", db, repository.NewProjectRepository(db), nil)
	ctx := context.Background()

	for _, title := range []string{"brief", "contract", "assets"} {
		doc := &models.Document{ProjectID: project.ID, UserID: user.ID, Title: title, URL: "https://example.com/" + title}
		require.NoError(t, svc.Create(ctx, user.ID, doc))
	}

	docs, err := svc.List(ctx, user.ID, project.ID)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Equal(t, "brief", docs[0].Title)
	require.Equal(t, "contract", docs[1].Title)
	require.Equal(t, "assets", docs[2].Title)
}

func TestRecordUpdateStaysInProject(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	project := seedProject(t, db, user.ID)
	other := seedProject(t, db, user.ID)
	svc := NewRecordService[models.Document]("documents", db, repository.NewProjectRepository(db), nil)
	ctx := context.Background()

	doc := &models.Document{ProjectID: project.ID, UserID: user.ID, Title: "brief", URL: "https://example.com/brief"}
	require.NoError(t, svc.Create(ctx, user.ID, doc))

	doc.Title = "brief v2"
	require.NoError(t, svc.Update(ctx, user.ID, doc))
	stored, err := svc.Get(ctx, user.ID, doc.ID)
	require.NoError(t, err)
	require.Equal(t, "brief v2", stored.Title)

	moved := *doc
	moved.ProjectID = other.ID
	err = svc.Update(ctx, user.ID, &moved)
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestPreferenceUpsertIsIdempotentPerSubject(t *testing.T) {
	db := newTestDB(t)
	project := seedProject(t, db, seedUser(t, db).ID)
	svc := NewPreferenceService(repository.NewPreferenceRepository(db))
	ctx := context.Background()

	_, err := svc.Set(ctx, project.ID, "schedule", "subject-1", true)
	require.NoError(t, err)
	_, err = svc.Set(ctx, project.ID, "schedule", "subject-1", false)
	require.NoError(t, err)
	_, err = svc.Set(ctx, project.ID, "schedule", "subject-2", true)
	require.NoError(t, err)
	// collapsed on first write must survive the insert path too
	_, err = svc.Set(ctx, project.ID, "returns", "subject-2", false)
	require.NoError(t, err)

	prefs, err := svc.List(ctx, project.ID, "subject-1")
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	require.False(t, prefs[0].Expanded)

	other, err := svc.List(ctx, project.ID, "subject-2")
	require.NoError(t, err)
	require.Len(t, other, 2)
	require.Equal(t, "returns", other[0].Section)
	require.False(t, other[0].Expanded)
	require.Equal(t, "schedule", other[1].Section)
	require.True(t, other[1].Expanded)

	_, err = svc.Set(ctx, project.ID, "schedule", "", true)
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestScheduleCellUpsert(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	project := seedProject(t, db, user.ID)

	sched := &models.Schedule{ProjectID: project.ID, UserID: user.ID, Title: "launch"}
	require.NoError(t, db.Create(sched).Error)

	projects := repository.NewProjectRepository(db)
	svc := NewScheduleCellService(repository.NewScheduleCellRepository(db), repository.NewOrderableRepository[models.Schedule](db), projects)
	ctx := context.Background()

	_, err := svc.Set(ctx, user.ID, sched.ID, "owner", "alex")
	require.NoError(t, err)
	_, err = svc.Set(ctx, user.ID, sched.ID, "owner", "sam")
	require.NoError(t, err)

	cells, err := svc.List(ctx, user.ID, sched.ID)
	require.NoError(t, err)
	require.Len(t, cells, 1)
	require.Equal(t, "sam", cells[0].Value)
}

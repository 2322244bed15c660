package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fundcraft/backstage/internal/models"
	"github.com/fundcraft/backstage/internal/realtime"
	"github.com/fundcraft/backstage/internal/repository"
	appErr "github.com/fundcraft/backstage/pkg/errors"
	"github.com/fundcraft/backstage/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CopyReport is the aggregated outcome of a replication run. Failures are
// human-readable, one per failed row or failed collection fetch; an empty list
// means every section copied.
type CopyReport struct {
	ProjectID uuid.UUID `json:"project_id"`
	Failures  []string  `json:"failures"`
}

// Partial reports whether any section is incomplete.
func (r *CopyReport) Partial() bool { return len(r.Failures) > 0 }

// Replicator deep-copies a project and all dependent collections into an
// existing destination project. It runs as a saga: an ordered list of copy
// steps, each collecting failures instead of aborting, so a broken section
// never discards the sections already copied.
type Replicator struct {
	db       *gorm.DB
	projects repository.ProjectRepository
	hub      *realtime.Hub

	// pause between row inserts; biases insertion-time ordering in the copy
	// toward the source order for collections without an order_index.
	pause time.Duration
}

func NewReplicator(db *gorm.DB, projects repository.ProjectRepository, hub *realtime.Hub, pause time.Duration) *Replicator {
	return &Replicator{db: db, projects: projects, hub: hub, pause: pause}
}

// Run copies every dependent collection from source to dest, remapping
// project_id everywhere, task_id on subtasks and task notes, schedule_id on
// schedule cells, and user_id to ownerID. It finishes by persisting the copy
// status and report on the destination project and publishing the outcome.
func (r *Replicator) Run(ctx context.Context, sourceID, destID, ownerID uuid.UUID) (*CopyReport, error) {
	var src, dest models.Project
	if err := r.projects.GetByID(ctx, sourceID, &src); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeNotFound, "source project not found")
	}
	if err := r.projects.GetByID(ctx, destID, &dest); err != nil {
		return nil, appErr.Wrap(err, appErr.CodeNotFound, "destination project not found")
	}

	run := &replicationRun{
		Replicator:  r,
		src:         sourceID,
		dst:         destID,
		owner:       ownerID,
		taskIDs:     map[uuid.UUID]uuid.UUID{},
		scheduleIDs: map[uuid.UUID]uuid.UUID{},
	}

	steps := []struct {
		name string
		fn   func(context.Context)
	}{
		{"tasks", run.copyTasks},
		{"subtasks", run.copySubtasks},
		{"task notes", run.copyTaskNotes},
		{"project notes", run.copyProjectNotes},
		{"schedules", run.copySchedules},
		{"schedule cells", run.copyScheduleCells},
		{"documents", run.copyDocuments},
		{"meetings", run.copyMeetings},
		{"returns", run.copyReturns},
		{"design requirements", run.copyDesignRequirements},
		{"text requirements", run.copyTextRequirements},
		{"video requirements", run.copyVideoRequirements},
		{"image assets", run.copyImageAssets},
	}
	for _, step := range steps {
		step.fn(ctx)
	}

	report := &CopyReport{ProjectID: destID, Failures: run.failures}
	status := models.CopyStatusComplete
	if report.Partial() {
		status = models.CopyStatusPartial
	}
	reportJSON, _ := json.Marshal(report.Failures)
	if err := r.projects.SetCopyState(ctx, destID, status, reportJSON); err != nil {
		logger.L().Error("persist copy state failed", zap.Error(err), zap.String("dest_id", destID.String()))
	}
	if r.hub != nil {
		r.hub.Publish(realtime.Event{Table: "projects", Action: realtime.ActionUpdate, ProjectID: destID, Payload: map[string]any{
			"copy_status": status,
			"copy_report": report.Failures,
		}})
	}
	logger.L().Info("project replication finished",
		zap.String("source_id", sourceID.String()),
		zap.String("dest_id", destID.String()),
		zap.String("status", status),
		zap.Int("failures", len(report.Failures)),
	)
	return report, nil
}

type replicationRun struct {
	*Replicator
	src, dst, owner uuid.UUID
	taskIDs         map[uuid.UUID]uuid.UUID
	scheduleIDs     map[uuid.UUID]uuid.UUID
	failures        []string
}

func (run *replicationRun) fail(section string, err error) {
	run.failures = append(run.failures, fmt.Sprintf("%s: %v", section, err))
	logger.L().Warn("replication step failure", zap.String("section", section), zap.Error(err))
}

// insert writes one copied row, then pauses per the timing heuristic so
// creation-time ordering in the destination tracks the source order.
func (run *replicationRun) insert(ctx context.Context, row any) error {
	if err := run.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	if run.pause > 0 {
		time.Sleep(run.pause)
	}
	return nil
}

// fetch loads source rows ordered by creation time ascending.
func fetch[T any](ctx context.Context, run *replicationRun, dest *[]T, scope string, id uuid.UUID) error {
	return run.db.WithContext(ctx).
		Where(scope+" = ?", id).
		Order("created_at ASC, id ASC").
		Find(dest).Error
}

func (run *replicationRun) copyTasks(ctx context.Context) {
	var rows []models.Task
	if err := fetch(ctx, run, &rows, "project_id", run.src); err != nil {
		run.fail("tasks", err)
		return
	}
	for _, t := range rows {
		oldID := t.ID
		t.ID = uuid.New()
		t.ProjectID = run.dst
		t.UserID = run.owner
		t.CreatedAt, t.UpdatedAt = time.Time{}, time.Time{}
		// Parents are created before children in practice; an unresolved
		// parent reference becomes a root in the copy, same as display.
		if t.ParentID != nil {
			if mapped, ok := run.taskIDs[*t.ParentID]; ok {
				t.ParentID = &mapped
			} else {
				t.ParentID = nil
			}
		}
		if err := run.insert(ctx, &t); err != nil {
			run.fail("tasks", fmt.Errorf("row %q: %w", t.Title, err))
			continue
		}
		run.taskIDs[oldID] = t.ID
	}
}

func (run *replicationRun) copySubtasks(ctx context.Context) {
	if len(run.taskIDs) == 0 {
		return
	}
	var rows []models.Subtask
	err := run.db.WithContext(ctx).
		Where("task_id IN ?", mapKeys(run.taskIDs)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		run.fail("subtasks", err)
		return
	}
	for _, s := range rows {
		newTaskID, ok := run.taskIDs[s.TaskID]
		if !ok {
			continue
		}
		s.ID = uuid.New()
		s.TaskID = newTaskID
		s.UserID = run.owner
		s.CreatedAt, s.UpdatedAt = time.Time{}, time.Time{}
		if err := run.insert(ctx, &s); err != nil {
			run.fail("subtasks", fmt.Errorf("row %q: %w", s.Title, err))
		}
	}
}

func (run *replicationRun) copyTaskNotes(ctx context.Context) {
	if len(run.taskIDs) == 0 {
		return
	}
	var rows []models.TaskNote
	err := run.db.WithContext(ctx).
		Where("task_id IN ?", mapKeys(run.taskIDs)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		run.fail("task notes", err)
		return
	}
	for _, n := range rows {
		newTaskID, ok := run.taskIDs[n.TaskID]
		if !ok {
			continue
		}
		n.ID = uuid.New()
		n.TaskID = newTaskID
		n.UserID = run.owner
		n.CreatedAt, n.UpdatedAt = time.Time{}, time.Time{}
		if err := run.insert(ctx, &n); err != nil {
			run.fail("task notes", fmt.Errorf("row %s: %w", n.ID, err))
		}
	}
}

func (run *replicationRun) copyProjectNotes(ctx context.Context) {
	var rows []models.ProjectNote
	if err := fetch(ctx, run, &rows, "project_id", run.src); err != nil {
		run.fail("project notes", err)
		return
	}
	for _, n := range rows {
		n.ID = uuid.New()
		n.ProjectID = run.dst
		n.UserID = run.owner
		n.CreatedAt, n.UpdatedAt = time.Time{}, time.Time{}
		if err := run.insert(ctx, &n); err != nil {
			run.fail("project notes", fmt.Errorf("row %s: %w", n.ID, err))
		}
	}
}

func (run *replicationRun) copySchedules(ctx context.Context) {
	var rows []models.Schedule
	if err := fetch(ctx, run, &rows, "project_id", run.src); err != nil {
		run.fail("schedules", err)
		return
	}
	for _, s := range rows {
		oldID := s.ID
		s.ID = uuid.New()
		s.ProjectID = run.dst
		s.UserID = run.owner
		s.CreatedAt, s.UpdatedAt = time.Time{}, time.Time{}
		if err := run.insert(ctx, &s); err != nil {
			run.fail("schedules", fmt.Errorf("row %q: %w", s.Title, err))
			continue
		}
		run.scheduleIDs[oldID] = s.ID
	}
}

func (run *replicationRun) copyScheduleCells(ctx context.Context) {
	if len(run.scheduleIDs) == 0 {
		return
	}
	var rows []models.ScheduleCell
	err := run.db.WithContext(ctx).
		Where("schedule_id IN ?", mapKeys(run.scheduleIDs)).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		run.fail("schedule cells", err)
		return
	}
	for _, c := range rows {
		newScheduleID, ok := run.scheduleIDs[c.ScheduleID]
		if !ok {
			continue
		}
		c.ID = uuid.New()
		c.ScheduleID = newScheduleID
		c.ProjectID = run.dst
		c.CreatedAt, c.UpdatedAt = time.Time{}, time.Time{}
		if err := run.insert(ctx, &c); err != nil {
			run.fail("schedule cells", fmt.Errorf("cell %q: %w", c.FieldKey, err))
		}
	}
}

func (run *replicationRun) copyDocuments(ctx context.Context) {
	copyProjectRows[models.Document](ctx, run, "documents", func(d *models.Document) string { return d.Title })
}

func (run *replicationRun) copyMeetings(ctx context.Context) {
	copyProjectRows[models.Meeting](ctx, run, "meetings", func(m *models.Meeting) string { return m.Title })
}

func (run *replicationRun) copyReturns(ctx context.Context) {
	copyProjectRows[models.Return](ctx, run, "returns", func(r *models.Return) string { return r.Title })
}

func (run *replicationRun) copyDesignRequirements(ctx context.Context) {
	copyProjectRows[models.DesignRequirement](ctx, run, "design requirements", func(d *models.DesignRequirement) string { return d.Title })
}

func (run *replicationRun) copyTextRequirements(ctx context.Context) {
	copyProjectRows[models.TextRequirement](ctx, run, "text requirements", func(t *models.TextRequirement) string { return t.Heading })
}

func (run *replicationRun) copyVideoRequirements(ctx context.Context) {
	copyProjectRows[models.VideoRequirement](ctx, run, "video requirements", func(v *models.VideoRequirement) string { return v.Title })
}

func (run *replicationRun) copyImageAssets(ctx context.Context) {
	copyProjectRows[models.ImageAsset](ctx, run, "image assets", func(a *models.ImageAsset) string { return a.URL })
}

// copyProjectRows handles the common case: rows keyed only by project_id, no
// foreign keys to remap beyond the project itself.
func copyProjectRows[T any](ctx context.Context, run *replicationRun, section string, label func(*T) string) {
	var rows []T
	if err := fetch(ctx, run, &rows, "project_id", run.src); err != nil {
		run.fail(section, err)
		return
	}
	for i := range rows {
		row := rows[i]
		resetProjectRow(&row, run.dst, run.owner)
		if err := run.insert(ctx, &row); err != nil {
			run.fail(section, fmt.Errorf("row %q: %w", label(&row), err))
		}
	}
}

// resetProjectRow rewires a copied row to the destination project through the
// shared column layout (id/project_id/user_id/timestamps).
func resetProjectRow(row any, projectID, ownerID uuid.UUID) {
	switch r := row.(type) {
	case *models.Document:
		r.ID, r.ProjectID, r.UserID = uuid.New(), projectID, ownerID
		r.CreatedAt, r.UpdatedAt = time.Time{}, time.Time{}
	case *models.Meeting:
		r.ID, r.ProjectID, r.UserID = uuid.New(), projectID, ownerID
		r.CreatedAt, r.UpdatedAt = time.Time{}, time.Time{}
	case *models.Return:
		r.ID, r.ProjectID, r.UserID = uuid.New(), projectID, ownerID
		r.CreatedAt, r.UpdatedAt = time.Time{}, time.Time{}
	case *models.DesignRequirement:
		r.ID, r.ProjectID, r.UserID = uuid.New(), projectID, ownerID
		r.CreatedAt, r.UpdatedAt = time.Time{}, time.Time{}
	case *models.TextRequirement:
		r.ID, r.ProjectID, r.UserID = uuid.New(), projectID, ownerID
		r.CreatedAt, r.UpdatedAt = time.Time{}, time.Time{}
	case *models.VideoRequirement:
		r.ID, r.ProjectID, r.UserID = uuid.New(), projectID, ownerID
		r.CreatedAt, r.UpdatedAt = time.Time{}, time.Time{}
	case *models.ImageAsset:
		r.ID, r.ProjectID, r.UserID = uuid.New(), projectID, ownerID
		r.CreatedAt, r.UpdatedAt = time.Time{}, time.Time{}
	}
}

func mapKeys(m map[uuid.UUID]uuid.UUID) []uuid.UUID {
	keys := make([]uuid.UUID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

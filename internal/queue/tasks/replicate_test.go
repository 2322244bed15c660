package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/fundcraft/backstage/internal/services"
	"github.com/fundcraft/backstage/pkg/logger"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "console"); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Run(ctx context.Context, sourceID, destID, ownerID uuid.UUID) (*services.CopyReport, error) {
	args := m.Called(ctx, sourceID, destID, ownerID)
	if report := args.Get(0); report != nil {
		return report.(*services.CopyReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func replicateTask(t *testing.T, p ReplicatePayload) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(p)
	require.NoError(t, err)
	return asynq.NewTask(TypeReplicate, payload)
}

func TestHandleReplicateRunsWithParsedIDs(t *testing.T) {
	sourceID, destID, ownerID := uuid.New(), uuid.New(), uuid.New()
	runner := new(mockRunner)
	runner.On("Run", mock.Anything, sourceID, destID, ownerID).
		Return(&services.CopyReport{ProjectID: destID}, nil)

	h := NewReplicateTaskHandler(runner)
	err := h.HandleReplicate(context.Background(), replicateTask(t, ReplicatePayload{
		SourceID: sourceID.String(),
		DestID:   destID.String(),
		OwnerID:  ownerID.String(),
	}))

	require.NoError(t, err)
	runner.AssertExpectations(t)
}

func TestHandleReplicatePartialReportIsNotAnError(t *testing.T) {
	destID := uuid.New()
	runner := new(mockRunner)
	runner.On("Run", mock.Anything, mock.Anything, destID, mock.Anything).
		Return(&services.CopyReport{ProjectID: destID, Failures: []string{"meetings: broken"}}, nil)

	h := NewReplicateTaskHandler(runner)
	err := h.HandleReplicate(context.Background(), replicateTask(t, ReplicatePayload{
		SourceID: uuid.NewString(),
		DestID:   destID.String(),
		OwnerID:  uuid.NewString(),
	}))

	require.NoError(t, err)
}

func TestHandleReplicateRunFailurePropagates(t *testing.T) {
	runner := new(mockRunner)
	runner.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("db down"))

	h := NewReplicateTaskHandler(runner)
	err := h.HandleReplicate(context.Background(), replicateTask(t, ReplicatePayload{
		SourceID: uuid.NewString(),
		DestID:   uuid.NewString(),
		OwnerID:  uuid.NewString(),
	}))

	require.Error(t, err)
}

func TestHandleReplicateRejectsBadPayload(t *testing.T) {
	runner := new(mockRunner)
	h := NewReplicateTaskHandler(runner)

	err := h.HandleReplicate(context.Background(), asynq.NewTask(TypeReplicate, []byte("{not json")))
	require.Error(t, err)

	err = h.HandleReplicate(context.Background(), replicateTask(t, ReplicatePayload{
		SourceID: "not-a-uuid",
		DestID:   uuid.NewString(),
		OwnerID:  uuid.NewString(),
	}))
	require.Error(t, err)

	runner.AssertNotCalled(t, "Run")
}

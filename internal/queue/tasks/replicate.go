package tasks

import (
	"context"
	"encoding/json"

	"github.com/fundcraft/backstage/internal/services"
	"github.com/fundcraft/backstage/pkg/logger"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeReplicate is the asynq task type for project duplication.
const TypeReplicate = "project:replicate"

// ReplicatePayload is the task payload for project duplication.
type ReplicatePayload struct {
	SourceID string `json:"source_id"`
	DestID   string `json:"dest_id"`
	OwnerID  string `json:"owner_id"`
}

// ReplicationRunner executes one replication run; implemented by
// services.Replicator.
type ReplicationRunner interface {
	Run(ctx context.Context, sourceID, destID, ownerID uuid.UUID) (*services.CopyReport, error)
}

// ReplicateTaskHandler handles project duplication tasks on the worker.
type ReplicateTaskHandler struct {
	runner ReplicationRunner
}

func NewReplicateTaskHandler(runner ReplicationRunner) *ReplicateTaskHandler {
	return &ReplicateTaskHandler{runner: runner}
}

func (h *ReplicateTaskHandler) HandleReplicate(ctx context.Context, t *asynq.Task) error {
	var p ReplicatePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid replicate task payload", zap.Error(err))
		return err
	}
	sourceID, err := uuid.Parse(p.SourceID)
	if err != nil {
		logger.L().Error("invalid source id in task", zap.Error(err))
		return err
	}
	destID, err := uuid.Parse(p.DestID)
	if err != nil {
		logger.L().Error("invalid dest id in task", zap.Error(err))
		return err
	}
	ownerID, err := uuid.Parse(p.OwnerID)
	if err != nil {
		logger.L().Error("invalid owner id in task", zap.Error(err))
		return err
	}

	logger.L().Info("handling replicate task",
		zap.String("source_id", sourceID.String()),
		zap.String("dest_id", destID.String()),
	)

	report, err := h.runner.Run(ctx, sourceID, destID, ownerID)
	if err != nil {
		logger.L().Error("replication run failed", zap.Error(err))
		return err
	}
	if report.Partial() {
		logger.L().Warn("replication finished with partial sections",
			zap.String("dest_id", destID.String()),
			zap.Strings("failures", report.Failures),
		)
	}
	return nil
}

// Client enqueues replication tasks from the API process.
type Client struct {
	client *asynq.Client
}

func NewClient(opt asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(opt)}
}

func (c *Client) Close() error { return c.client.Close() }

// EnqueueReplication implements services.ReplicationEnqueuer.
func (c *Client) EnqueueReplication(ctx context.Context, sourceID, destID, ownerID uuid.UUID) error {
	payload, err := json.Marshal(ReplicatePayload{
		SourceID: sourceID.String(),
		DestID:   destID.String(),
		OwnerID:  ownerID.String(),
	})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, asynq.NewTask(TypeReplicate, payload), asynq.MaxRetry(3))
	return err
}

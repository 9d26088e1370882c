package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"studio-backend/internal/domains/activity"
	"studio-backend/pkg/logger"
)

// RecordHandler persists queued audit entries. Failures are returned so
// asynq retries; a malformed payload is dropped for good.
type RecordHandler struct {
	repo activity.Repository
}

func NewRecordHandler(repo activity.Repository) *RecordHandler {
	return &RecordHandler{repo: repo}
}

func (h *RecordHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var entry activity.Entry
	if err := json.Unmarshal(task.Payload(), &entry); err != nil {
		logger.Warn("discarding malformed activity task", map[string]interface{}{
			"error": err.Error(),
		})
		return fmt.Errorf("decode activity entry: %w", asynq.SkipRetry)
	}

	if err := h.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}

	logger.Debug("activity entry recorded")
	return nil
}

package activity

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/hibiken/asynq"

	"studio-backend/pkg/logger"
)

const TaskTypeRecord = "activity:record"

// Recorder accepts audit events. Recording is strictly best-effort:
// implementations never return an error and never block the caller's
// request on log delivery.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// AsynqRecorder enqueues entries for the background worker to persist.
// Enqueue failures are swallowed but counted, so the health endpoint can
// surface silent audit loss.
type AsynqRecorder struct {
	client  *asynq.Client
	dropped atomic.Int64
}

func NewAsynqRecorder(client *asynq.Client) *AsynqRecorder {
	return &AsynqRecorder{client: client}
}

func (r *AsynqRecorder) Record(ctx context.Context, e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	payload, err := json.Marshal(e)
	if err != nil {
		r.drop(e.Type, err)
		return
	}

	task := asynq.NewTask(TaskTypeRecord, payload)
	if _, err := r.client.EnqueueContext(ctx, task, asynq.MaxRetry(3)); err != nil {
		r.drop(e.Type, err)
	}
}

// Dropped reports how many entries were lost since startup.
func (r *AsynqRecorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *AsynqRecorder) drop(activityType string, err error) {
	r.dropped.Add(1)
	logger.Warn("activity entry dropped", map[string]interface{}{
		"activity_type": activityType,
		"error":         err.Error(),
		"dropped_total": r.dropped.Load(),
	})
}

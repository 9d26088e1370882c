package main

import (
	"github.com/hibiken/asynq"

	"studio-backend/internal/domains/activity"
	"studio-backend/internal/domains/activity/job"
	"studio-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	record *job.RecordHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		record: job.NewRecordHandler(c.ActivityRepo),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(activity.TaskTypeRecord, h.record.ProcessTask)
}

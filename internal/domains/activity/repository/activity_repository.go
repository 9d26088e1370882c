package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"studio-backend/internal/domains/activity"
)

type activityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) activity.Repository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Insert(ctx context.Context, e activity.Entry) error {
	var userID interface{}
	if e.UserID != "" {
		userID = e.UserID
	}

	var contextJSON interface{}
	if len(e.Context) > 0 {
		data, err := json.Marshal(e.Context)
		if err != nil {
			return fmt.Errorf("failed to encode activity context: %w", err)
		}
		contextJSON = data
	}

	query := `
		INSERT INTO user_activity_log (user_id, activity_type, user_agent, ip_address, context, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		userID, e.Type, e.UserAgent, e.IPAddress, contextJSON, e.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert activity entry: %w", err)
	}

	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studio-backend/internal/domains/user"
	"studio-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

const userColumns = `
	id, email, password_hash, role, nickname,
	is_verified, is_deleted, session_timeout,
	last_login, created_at, updated_at
`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Nickname,
		&u.IsVerified,
		&u.IsDeleted,
		&u.SessionTimeout,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// GetByEmail looks up an active account. Email comparison is
// case-insensitive; addresses are normalized to lowercase on write.
func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(email) = $1 AND is_verified AND NOT is_deleted
	`
	normalized := strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.pool.QueryRow(ctx, query, normalized))
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND is_verified AND NOT is_deleted
	`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET last_login = NOW(), updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to update last_login: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*user.Profile, error) {
	query := `
		SELECT user_id, avatar, bio, phone, homepage, twitter, linkedin, github
		FROM profiles
		WHERE user_id = $1
	`
	var p user.Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.Avatar,
		&p.Bio,
		&p.Phone,
		&p.Homepage,
		&p.Twitter,
		&p.LinkedIn,
		&p.GitHub,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return &p, nil
}

// SaveProfile upserts the profile row. A non-empty nickname also updates
// the user row; both writes share one transaction.
func (r *postgresRepository) SaveProfile(ctx context.Context, userID uuid.UUID, nickname string, p *user.Profile) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if nickname != "" {
			_, err := tx.Exec(ctx,
				`UPDATE users SET nickname = $1, updated_at = NOW() WHERE id = $2`,
				nickname, userID)
			if err != nil {
				return fmt.Errorf("failed to update nickname: %w", err)
			}
		}

		query := `
			INSERT INTO profiles (user_id, avatar, bio, phone, homepage, twitter, linkedin, github)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (user_id) DO UPDATE SET
				avatar = EXCLUDED.avatar,
				bio = EXCLUDED.bio,
				phone = EXCLUDED.phone,
				homepage = EXCLUDED.homepage,
				twitter = EXCLUDED.twitter,
				linkedin = EXCLUDED.linkedin,
				github = EXCLUDED.github
		`
		_, err := tx.Exec(ctx, query,
			userID, p.Avatar, p.Bio, p.Phone, p.Homepage, p.Twitter, p.LinkedIn, p.GitHub)
		if err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}
		return nil
	})
}

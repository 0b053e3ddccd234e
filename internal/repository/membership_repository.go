package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/littlelemon/internal/port"
)

type membershipRepository struct {
	db DBTX
}

func NewMembership(pool *pgxpool.Pool) port.MembershipRepository {
	return &membershipRepository{db: pool}
}

func (r *membershipRepository) Groups(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is empty")
	}

	rows, err := r.db.Query(ctx, `SELECT group_name FROM user_groups WHERE user_id = $1 ORDER BY group_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}

	groups, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	return groups, nil
}

func (r *membershipRepository) IsMember(ctx context.Context, group, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_groups WHERE group_name = $1 AND user_id = $2)`, group, userID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("db.QueryRow: %w", err)
	}

	return ok, nil
}

func (r *membershipRepository) ListMembers(ctx context.Context, group string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id FROM user_groups WHERE group_name = $1 ORDER BY user_id`, group)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}

	members, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}

	return members, nil
}

func (r *membershipRepository) AddMember(ctx context.Context, group, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID is empty")
	}

	_, err := r.db.Exec(ctx, `
INSERT INTO user_groups (user_id, group_name) VALUES ($1, $2)
ON CONFLICT (user_id, group_name) DO NOTHING`, userID, group)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", mapError(err))
	}

	return nil
}

func (r *membershipRepository) RemoveMember(ctx context.Context, group, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_groups WHERE group_name = $1 AND user_id = $2`, group, userID)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/portfolio-insights/internal/models"
	"github.com/portfolio-insights/internal/types"
)

// ViewRepository handles saved view persistence
type ViewRepository struct {
	db *PostgresDB
}

// NewViewRepository creates a new view repository
func NewViewRepository(db *PostgresDB) *ViewRepository {
	return &ViewRepository{db: db}
}

// Create persists a new saved view
func (r *ViewRepository) Create(ctx context.Context, view *models.View) error {
	if view.ID == "" {
		view.ID = uuid.New().String()
	}
	if view.Source == "" {
		view.Source = types.SourceDashboard
	}
	view.CreatedAt = time.Now()

	if view.Type != types.ViewChart && view.Type != types.ViewTable {
		return fmt.Errorf("invalid view type: %s", view.Type)
	}

	query := `
		INSERT INTO views (id, user_id, type, source, title, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		view.ID,
		view.UserID,
		view.Type,
		view.Source,
		view.Title,
		view.Data,
		view.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create view: %w", err)
	}

	return nil
}

// ListByUser retrieves all views for a user, newest first
func (r *ViewRepository) ListByUser(ctx context.Context, userID string) ([]*models.View, error) {
	query := `
		SELECT id, user_id, type, source, title, data, created_at
		FROM views
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer rows.Close()

	views := []*models.View{}
	for rows.Next() {
		var view models.View
		if err := rows.Scan(
			&view.ID,
			&view.UserID,
			&view.Type,
			&view.Source,
			&view.Title,
			&view.Data,
			&view.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		views = append(views, &view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate views: %w", err)
	}

	return views, nil
}

// GetByID retrieves a single view
func (r *ViewRepository) GetByID(ctx context.Context, id string) (*models.View, error) {
	query := `
		SELECT id, user_id, type, source, title, data, created_at
		FROM views
		WHERE id = $1
	`

	var view models.View
	err := r.db.Pool().QueryRow(ctx, query, id).Scan(
		&view.ID,
		&view.UserID,
		&view.Type,
		&view.Source,
		&view.Title,
		&view.Data,
		&view.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("view not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get view: %w", err)
	}

	return &view, nil
}

// Delete removes a view owned by the given user
func (r *ViewRepository) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.db.Pool().Exec(ctx, `DELETE FROM views WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("view not found: %s", id)
	}
	return nil
}

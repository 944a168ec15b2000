package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/portfolio-insights/internal/models"
)

// PreferenceRepository persists per-user UI preferences keyed by
// (user_id, view_id) with last-write-wins upsert semantics.
type PreferenceRepository struct {
	db *PostgresDB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *PostgresDB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Save upserts a preference record. The last writer wins.
func (r *PreferenceRepository) Save(ctx context.Context, pref *models.Preference) error {
	pref.UpdatedAt = time.Now()

	query := `
		INSERT INTO preferences (user_id, view_id, settings, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, view_id)
		DO UPDATE SET settings = EXCLUDED.settings, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Pool().Exec(ctx, query,
		pref.UserID,
		pref.ViewID,
		pref.Settings,
		pref.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}

	return nil
}

// Get retrieves the preference for one (user, view) pair. Absence is
// reported via the bool, not an error.
func (r *PreferenceRepository) Get(ctx context.Context, userID, viewID string) (*models.Preference, bool, error) {
	query := `
		SELECT user_id, view_id, settings, updated_at
		FROM preferences
		WHERE user_id = $1 AND view_id = $2
	`

	var pref models.Preference
	err := r.db.Pool().QueryRow(ctx, query, userID, viewID).Scan(
		&pref.UserID,
		&pref.ViewID,
		&pref.Settings,
		&pref.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get preference: %w", err)
	}

	return &pref, true, nil
}

// Delete removes a preference record
func (r *PreferenceRepository) Delete(ctx context.Context, userID, viewID string) error {
	_, err := r.db.Pool().Exec(ctx,
		`DELETE FROM preferences WHERE user_id = $1 AND view_id = $2`, userID, viewID)
	if err != nil {
		return fmt.Errorf("failed to delete preference: %w", err)
	}
	return nil
}

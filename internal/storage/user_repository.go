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

// UserRepository handles user data persistence
type UserRepository struct {
	db *PostgresDB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *PostgresDB) *UserRepository {
	return &UserRepository{db: db}
}

func validateTier(tier types.UserTier) error {
	switch tier {
	case types.TierFree, types.TierPaid:
		return nil
	default:
		return fmt.Errorf("invalid tier: %s", tier)
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Tier == "" {
		user.Tier = types.TierFree
	}
	if err := validateTier(user.Tier); err != nil {
		return err
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, email, tier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		user.ID,
		user.Email,
		user.Tier,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, tier, created_at, updated_at
		FROM users
		WHERE %s = $1
	`, column)

	var user models.User
	err := r.db.Pool().QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.Email,
		&user.Tier,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %s", value)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UpdateTier changes a user's service tier
func (r *UserRepository) UpdateTier(ctx context.Context, id string, tier types.UserTier) error {
	if err := validateTier(tier); err != nil {
		return err
	}

	tag, err := r.db.Pool().Exec(ctx,
		`UPDATE users SET tier = $1, updated_at = $2 WHERE id = $3`,
		tier, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}

	return nil
}

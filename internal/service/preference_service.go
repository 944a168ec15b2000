package service

import (
	"context"
	"encoding/json"

	"github.com/portfolio-insights/internal/models"
	"github.com/portfolio-insights/internal/types"
)

// preferenceStore is the slice of the preference repository the service needs
type preferenceStore interface {
	Save(ctx context.Context, pref *models.Preference) error
	Get(ctx context.Context, userID, viewID string) (*models.Preference, bool, error)
	Delete(ctx context.Context, userID, viewID string) error
}

// PreferenceService manages per-user UI preferences keyed by
// (user, view). Writes are last-write-wins.
type PreferenceService struct {
	prefs preferenceStore
}

// NewPreferenceService creates a new preference service
func NewPreferenceService(prefs preferenceStore) *PreferenceService {
	return &PreferenceService{prefs: prefs}
}

// Save stores the settings payload for one (user, view) pair
func (s *PreferenceService) Save(ctx context.Context, userID, viewID string, settings json.RawMessage) error {
	if userID == "" {
		return &types.ServiceError{Code: "UNAUTHENTICATED", Message: "User not authenticated"}
	}
	if viewID == "" {
		return &types.ServiceError{Code: "INVALID_INPUT", Message: "View ID is required"}
	}
	if !json.Valid(settings) {
		return &types.ServiceError{Code: "INVALID_INPUT", Message: "Settings must be valid JSON"}
	}

	return s.prefs.Save(ctx, &models.Preference{
		UserID:   userID,
		ViewID:   viewID,
		Settings: settings,
	})
}

// Delete removes the stored settings for one (user, view) pair. Deleting
// an absent preference is a no-op.
func (s *PreferenceService) Delete(ctx context.Context, userID, viewID string) error {
	if userID == "" {
		return &types.ServiceError{Code: "UNAUTHENTICATED", Message: "User not authenticated"}
	}
	if viewID == "" {
		return &types.ServiceError{Code: "INVALID_INPUT", Message: "View ID is required"}
	}

	return s.prefs.Delete(ctx, userID, viewID)
}

// Get loads the settings for one (user, view) pair. The bool reports
// whether a preference exists.
func (s *PreferenceService) Get(ctx context.Context, userID, viewID string) (*models.Preference, bool, error) {
	if userID == "" {
		return nil, false, &types.ServiceError{Code: "UNAUTHENTICATED", Message: "User not authenticated"}
	}

	return s.prefs.Get(ctx, userID, viewID)
}

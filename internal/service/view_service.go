package service

import (
	"context"
	"encoding/json"

	"github.com/portfolio-insights/internal/logging"
	"github.com/portfolio-insights/internal/models"
	"github.com/portfolio-insights/internal/types"
)

// viewStore is the slice of the view repository the service needs
type viewStore interface {
	Create(ctx context.Context, view *models.View) error
	ListByUser(ctx context.Context, userID string) ([]*models.View, error)
	GetByID(ctx context.Context, id string) (*models.View, error)
	Delete(ctx context.Context, userID, id string) error
}

// SaveViewResult is the fail-closed response envelope for view saves
type SaveViewResult struct {
	Success bool   `json:"success"`
	ViewID  string `json:"viewId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// GetViewResult is the fail-closed response envelope for single-view reads
type GetViewResult struct {
	Success bool         `json:"success"`
	View    *models.View `json:"view,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// DeleteViewResult is the fail-closed response envelope for view deletion
type DeleteViewResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ListViewsResult is the fail-closed response envelope for view listings
type ListViewsResult struct {
	Success bool           `json:"success"`
	Views   []*models.View `json:"views,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ViewService persists and lists saved chart/table views. Both
// operations fail closed when the caller is unauthenticated: a
// structured failure result, never an error that could leak as a 500.
type ViewService struct {
	views viewStore
}

// NewViewService creates a new view service
func NewViewService(views viewStore) *ViewService {
	return &ViewService{views: views}
}

// SaveView persists an opaque view payload for the given user
func (s *ViewService) SaveView(ctx context.Context, userID string, data json.RawMessage, viewType types.ViewType, source types.ViewSource, title string) *SaveViewResult {
	if userID == "" {
		return &SaveViewResult{Success: false, Error: "User not authenticated"}
	}

	view := &models.View{
		UserID: userID,
		Type:   viewType,
		Source: source,
		Title:  title,
		Data:   data,
	}

	if err := s.views.Create(ctx, view); err != nil {
		logging.FromContext(ctx).WithField("userId", userID).WithError(err).Error("Failed to save view")
		return &SaveViewResult{Success: false, Error: "Failed to save view"}
	}

	return &SaveViewResult{Success: true, ViewID: view.ID}
}

// GetView returns one of the user's saved views. Views belonging to
// other users report the same "not found" as absent ones.
func (s *ViewService) GetView(ctx context.Context, userID, viewID string) *GetViewResult {
	if userID == "" {
		return &GetViewResult{Success: false, Error: "User not authenticated"}
	}

	view, err := s.views.GetByID(ctx, viewID)
	if err != nil || view.UserID != userID {
		return &GetViewResult{Success: false, Error: "View not found"}
	}

	return &GetViewResult{Success: true, View: view}
}

// DeleteView removes one of the user's saved views. Ownership is enforced
// by the store; deleting someone else's view reports "not found".
func (s *ViewService) DeleteView(ctx context.Context, userID, viewID string) *DeleteViewResult {
	if userID == "" {
		return &DeleteViewResult{Success: false, Error: "User not authenticated"}
	}

	if err := s.views.Delete(ctx, userID, viewID); err != nil {
		logging.FromContext(ctx).WithField("viewId", viewID).WithError(err).Warn("Failed to delete view")
		return &DeleteViewResult{Success: false, Error: "View not found"}
	}

	return &DeleteViewResult{Success: true}
}

// ListViews returns the user's saved views, newest first
func (s *ViewService) ListViews(ctx context.Context, userID string) *ListViewsResult {
	if userID == "" {
		return &ListViewsResult{Success: false, Error: "User not authenticated"}
	}

	views, err := s.views.ListByUser(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).WithField("userId", userID).WithError(err).Error("Failed to list views")
		return &ListViewsResult{Success: false, Error: "Failed to fetch views"}
	}

	return &ListViewsResult{Success: true, Views: views}
}

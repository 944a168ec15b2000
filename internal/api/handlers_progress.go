package api

import (
	"net/http"

	"github.com/portfolio-insights/internal/types"
)

// handleIngestionProgress returns the last-seen ingestion progress per
// endpoint. When no feed is configured the snapshot is empty, not an error.
func (s *Server) handleIngestionProgress(w http.ResponseWriter, r *http.Request) {
	var snapshot map[string]types.ProgressEvent
	if s.progress != nil {
		snapshot = s.progress.Snapshot()
	}
	if snapshot == nil {
		snapshot = map[string]types.ProgressEvent{}
	}

	respondJSON(w, http.StatusOK, snapshot)
}

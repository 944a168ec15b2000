// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/portfolio-insights/internal/logging"
	"github.com/portfolio-insights/internal/models"
	"github.com/portfolio-insights/internal/service"
	"github.com/portfolio-insights/internal/table"
	"github.com/portfolio-insights/internal/types"
)

// Service interfaces for dependency injection and testing

// AssetServiceInterface defines the interface for asset service operations
type AssetServiceInterface interface {
	GetAssetDetails(ctx context.Context, assetName string) ([]map[string]interface{}, error)
	GetAssetList(ctx context.Context, sectorID int) ([]string, error)
	GetAssetMetrics(ctx context.Context, assetName string, isPlan bool) (types.AssetMetrics, error)
}

// DealServiceInterface defines the interface for deal service operations
type DealServiceInterface interface {
	GetDealList(ctx context.Context, assetName string) ([]map[string]interface{}, error)
	GetDealCashflow(ctx context.Context, assetName string) ([]map[string]interface{}, error)
}

// MetricsServiceInterface defines the interface for metric service operations
type MetricsServiceInterface interface {
	GetInternationalMetrics(ctx context.Context, assetName string) ([]map[string]interface{}, error)
}

// DashboardServiceInterface defines the interface for dashboard aggregates
type DashboardServiceInterface interface {
	GetCounts(ctx context.Context) (*service.DashboardCounts, error)
}

// ViewServiceInterface defines the interface for saved view operations
type ViewServiceInterface interface {
	SaveView(ctx context.Context, userID string, data json.RawMessage, viewType types.ViewType, source types.ViewSource, title string) *service.SaveViewResult
	ListViews(ctx context.Context, userID string) *service.ListViewsResult
	GetView(ctx context.Context, userID, viewID string) *service.GetViewResult
	DeleteView(ctx context.Context, userID, viewID string) *service.DeleteViewResult
}

// PreferenceServiceInterface defines the interface for UI preference storage
type PreferenceServiceInterface interface {
	Save(ctx context.Context, userID, viewID string, settings json.RawMessage) error
	Get(ctx context.Context, userID, viewID string) (*models.Preference, bool, error)
	Delete(ctx context.Context, userID, viewID string) error
}

// UserStoreInterface defines the interface for user persistence
type UserStoreInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateTier(ctx context.Context, id string, tier types.UserTier) error
}

// ProjectionServiceInterface defines the interface for chart/table projections
type ProjectionServiceInterface interface {
	GetMetricChart(ctx context.Context, q service.SeriesQuery) ([]types.Row, error)
	GetMetricTable(ctx context.Context, q service.SeriesQuery, opts service.TableOptions) (table.Page, error)
	GetDealTable(ctx context.Context, assetName string, opts service.TableOptions) (table.Page, error)
}

// ConverterInterface defines the interface for currency conversion
type ConverterInterface interface {
	Convert(ctx context.Context, date, base, symbol string, amount float64) (float64, error)
}

// ProgressInterface exposes last-seen ingestion progress
type ProgressInterface interface {
	Snapshot() map[string]types.ProgressEvent
}

// Server represents the HTTP API server.
type Server struct {
	router            *mux.Router
	httpServer        *http.Server
	assetService      AssetServiceInterface
	dealService       DealServiceInterface
	metricsService    MetricsServiceInterface
	dashboardService  DashboardServiceInterface
	viewService       ViewServiceInterface
	preferenceService PreferenceServiceInterface
	projectionService ProjectionServiceInterface
	converter         ConverterInterface
	progress          ProgressInterface
	userStore         UserStoreInterface
	config            *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	FreeTierRPS     int
	PaidTierRPS     int
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	assetService AssetServiceInterface,
	dealService DealServiceInterface,
	metricsService MetricsServiceInterface,
	dashboardService DashboardServiceInterface,
	viewService ViewServiceInterface,
	preferenceService PreferenceServiceInterface,
	projectionService ProjectionServiceInterface,
	converter ConverterInterface,
	progress ProgressInterface,
	userStore UserStoreInterface,
) *Server {
	s := &Server{
		router:            mux.NewRouter(),
		assetService:      assetService,
		dealService:       dealService,
		metricsService:    metricsService,
		dashboardService:  dashboardService,
		viewService:       viewService,
		preferenceService: preferenceService,
		projectionService: projectionService,
		converter:         converter,
		progress:          progress,
		userStore:         userStore,
		config:            config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.FreeTierRPS, s.config.PaidTierRPS)

	// Middleware order matters
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Warehouse proxy endpoints
	api.HandleFunc("/asset-details", s.handleAssetDetails).Methods("GET")
	api.HandleFunc("/asset-metrics", s.handleAssetMetrics).Methods("GET")
	api.HandleFunc("/asset-list", s.handleAssetList).Methods("GET")
	api.HandleFunc("/deal-list-details", s.handleDealList).Methods("GET")
	api.HandleFunc("/deal-cashflow-details", s.handleDealCashflow).Methods("GET")
	api.HandleFunc("/international-metrics", s.handleInternationalMetrics).Methods("GET")
	api.HandleFunc("/dashboard-counts", s.handleDashboardCounts).Methods("GET")

	// Chart and table projections
	api.HandleFunc("/metric-chart", s.handleMetricChart).Methods("GET")
	api.HandleFunc("/metric-table", s.handleMetricTable).Methods("GET")
	api.HandleFunc("/deal-list-table", s.handleDealTable).Methods("GET")

	// Currency conversion
	api.HandleFunc("/currency-converter", s.handleCurrencyConverter).Methods("GET")

	// Saved views and preferences
	api.HandleFunc("/views", s.handleSaveView).Methods("POST")
	api.HandleFunc("/views", s.handleListViews).Methods("GET")
	api.HandleFunc("/views/{id}", s.handleGetView).Methods("GET")
	api.HandleFunc("/views/{id}", s.handleDeleteView).Methods("DELETE")
	api.HandleFunc("/preferences/{viewID}", s.handleGetPreference).Methods("GET")
	api.HandleFunc("/preferences/{viewID}", s.handleSavePreference).Methods("PUT")
	api.HandleFunc("/preferences/{viewID}", s.handleDeletePreference).Methods("DELETE")

	// Ingestion progress
	api.HandleFunc("/ingestion-progress", s.handleIngestionProgress).Methods("GET")

	// User management
	api.HandleFunc("/users", s.handleCreateUser).Methods("POST")
	api.HandleFunc("/users/{id}", s.handleGetUser).Methods("GET")
	api.HandleFunc("/users/{id}/tier", s.handleUpdateUserTier).Methods("PUT")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "portfolio-insights",
	})
}

// Router returns the configured handler, used by tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.GetGlobalLogger().WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.FromContext(ctx).Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

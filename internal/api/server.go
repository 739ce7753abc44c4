package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nexinsight/nexinsight/internal/ai"
	"github.com/nexinsight/nexinsight/internal/auth"
	"github.com/nexinsight/nexinsight/internal/cache"
	"github.com/nexinsight/nexinsight/internal/config"
	"github.com/nexinsight/nexinsight/internal/db"
	"github.com/nexinsight/nexinsight/internal/models"
	"github.com/nexinsight/nexinsight/internal/webhook"
)

// Store is the persistence surface the handlers depend on, implemented by
// db.Store.
type Store interface {
	CreateProject(ctx context.Context, p models.Project) (models.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, f db.ProjectFilter) (*db.ProjectList, error)
	SetProjectEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	SimilarProjects(ctx context.Context, id uuid.UUID, limit int) ([]models.Project, error)

	CreateProposal(ctx context.Context, p models.Proposal) (models.Proposal, error)
	ListProposals(ctx context.Context, userID uuid.UUID) ([]models.Proposal, error)
	UpdateProposalStatus(ctx context.Context, id uuid.UUID, status string) (*models.Proposal, error)

	GetAnalytics(ctx context.Context, userID uuid.UUID) (*models.Analytics, error)
	SaveAnalytics(ctx context.Context, a models.Analytics) error

	CreateAgentConfig(ctx context.Context, cfg models.AgentConfig) (models.AgentConfig, error)
	ListAgentConfigs(ctx context.Context, userID uuid.UUID) ([]models.AgentConfig, error)
	ActivateAgentConfig(ctx context.Context, userID, configID uuid.UUID) error
	DeleteAgentConfig(ctx context.Context, userID, configID uuid.UUID) error
	ActiveAgentConfig(ctx context.Context, userID uuid.UUID) (*models.AgentConfig, error)

	GetStats(ctx context.Context) (map[string]any, error)
}

type Server struct {
	Store       Store
	AuthService *auth.Service
	Webhook     *webhook.Client
	Embedder    ai.Embedder
	Cache       cache.Cache
	Echo        *echo.Echo

	cfg config.Config
}

func NewServer(cfg config.Config, store Store, authService *auth.Service, client *webhook.Client, embedder ai.Embedder, c cache.Cache) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s := &Server{
		Store:       store,
		AuthService: authService,
		Webhook:     client,
		Embedder:    embedder,
		Cache:       c,
		Echo:        e,
		cfg:         cfg,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/v1")

	api.GET("/projects", s.handleListProjects)
	api.GET("/projects/:id", s.handleGetProject)
	api.GET("/projects/:id/similar", s.handleSimilarProjects)
	api.GET("/stats", s.handleStats)

	// Automation-facing ingest endpoints. These are open like the hosted
	// functions they replace; OPTIONS probes are answered by the CORS
	// middleware before any validation runs.
	api.POST("/webhooks/project-sync", s.handleProjectSync)
	api.POST("/webhooks/bid-status", s.handleBidStatus)

	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	protected := api.Group("")
	protected.Use(auth.Middleware)
	protected.GET("/agents", s.handleListAgents)
	protected.POST("/agents", s.handleCreateAgent)
	protected.POST("/agents/:id/activate", s.handleActivateAgent)
	protected.DELETE("/agents/:id", s.handleDeleteAgent)
	protected.POST("/insights", s.handleGenerateInsights)
	protected.POST("/proposals/generate", s.handleGenerateProposal)
	protected.GET("/proposals", s.handleListProposals)
	protected.GET("/analytics", s.handleAnalytics)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrUserExists {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if err == auth.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

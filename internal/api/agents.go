package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nexinsight/nexinsight/internal/auth"
	"github.com/nexinsight/nexinsight/internal/db"
	"github.com/nexinsight/nexinsight/internal/models"
)

type createAgentRequest struct {
	AgentName  string `json:"agent_name"`
	WebhookURL string `json:"webhook_url"`
	IsActive   bool   `json:"is_active"`
}

func (s *Server) handleCreateAgent(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req createAgentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.AgentName == "" || req.WebhookURL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "agent_name and webhook_url are required"})
	}
	if u, err := url.Parse(req.WebhookURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "webhook_url must be an http(s) URL"})
	}

	cfg, err := s.Store.CreateAgentConfig(c.Request().Context(), models.AgentConfig{
		UserID:     userID,
		AgentName:  req.AgentName,
		WebhookURL: req.WebhookURL,
		IsActive:   req.IsActive,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	// Creating an active config supersedes any previous active one.
	if cfg.IsActive {
		if err := s.Store.ActivateAgentConfig(c.Request().Context(), userID, cfg.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusCreated, cfg)
}

func (s *Server) handleListAgents(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	configs, err := s.Store.ListAgentConfigs(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"agents": configs})
}

func (s *Server) handleActivateAgent(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	configID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid agent ID"})
	}

	err = s.Store.ActivateAgentConfig(c.Request().Context(), userID, configID)
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Agent config not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "activated"})
}

func (s *Server) handleDeleteAgent(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	configID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid agent ID"})
	}

	err = s.Store.DeleteAgentConfig(c.Request().Context(), userID, configID)
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Agent config not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusOK)
}

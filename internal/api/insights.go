package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nexinsight/nexinsight/internal/auth"
	"github.com/nexinsight/nexinsight/internal/db"
	"github.com/nexinsight/nexinsight/internal/models"
	"github.com/nexinsight/nexinsight/internal/webhook"
)

type insightsRequest struct {
	Company webhook.Company `json:"company"`
}

// handleGenerateInsights forwards the company intake to the user's active
// automation webhook and returns the resolved insight bundle and bids.
func (s *Server) handleGenerateInsights(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req insightsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Company.Name == "" || req.Company.Focus == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "company name and focus are required"})
	}

	caller, agent, err := s.resolveCaller(c, userID)
	if err != nil {
		return err
	}

	result, err := s.Webhook.GenerateInsights(c.Request().Context(), agent.WebhookURL, req.Company, caller)
	if err != nil {
		c.Logger().Errorf("insights webhook call failed: %v", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"insights":     result.Insights,
		"bids":         result.Bids,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	})
}

type generateProposalRequest struct {
	Bid       webhook.NormalizedBid `json:"bid"`
	ProjectID *uuid.UUID            `json:"project_id"`
}

// handleGenerateProposal asks the automation for proposal text for one bid
// and persists it as a draft proposal. A bid that already carries a proposal
// is returned as-is without calling the webhook.
func (s *Server) handleGenerateProposal(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req generateProposalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	content := req.Bid.Proposal
	if content == "" {
		caller, agent, rcErr := s.resolveCaller(c, userID)
		if rcErr != nil {
			return rcErr
		}

		content, err = s.Webhook.GenerateProposal(c.Request().Context(), agent.WebhookURL, req.Bid, caller)
		if err != nil {
			c.Logger().Errorf("proposal webhook call failed: %v", err)
			return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
		}
		if content == "" {
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "Proposal agent did not return any content"})
		}
	}

	proposal, err := s.Store.CreateProposal(c.Request().Context(), models.Proposal{
		UserID:    userID,
		ProjectID: req.ProjectID,
		Content:   content,
		Status:    "draft",
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"proposal": proposal,
	})
}

func (s *Server) handleListProposals(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	proposals, err := s.Store.ListProposals(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"proposals": proposals})
}

// handleAnalytics returns the caller's analytics record alongside the cached
// project aggregates. A user without a record sees zeroed counters.
func (s *Server) handleAnalytics(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	record, err := s.Store.GetAnalytics(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		record = &models.Analytics{UserID: userID}
	} else if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	const cacheKey = "stats:projects"
	var stats map[string]any
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
			_ = json.Unmarshal(cached, &stats)
		}
	}
	if stats == nil {
		stats, err = s.Store.GetStats(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		if s.Cache != nil {
			if blob, err := json.Marshal(stats); err == nil {
				_ = s.Cache.Set(ctx, cacheKey, blob, s.cfg.CacheTTLStats)
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"analytics": record,
		"projects":  stats,
	})
}

// resolveCaller builds the webhook caller identity and finds the active
// agent config. Absence of an active config is reported to the user, not
// treated as a server failure.
func (s *Server) resolveCaller(c echo.Context, userID uuid.UUID) (webhook.Caller, *models.AgentConfig, error) {
	ctx := c.Request().Context()

	agent, err := s.Store.ActiveAgentConfig(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return webhook.Caller{}, nil, echo.NewHTTPError(http.StatusBadRequest,
			"No active automation webhook found. Connect your automation first.")
	}
	if err != nil {
		return webhook.Caller{}, nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	caller := webhook.Caller{ID: userID.String()}
	if s.AuthService != nil {
		if email, err := s.AuthService.UserEmail(ctx, userID); err == nil {
			caller.Email = email
		}
	}
	return caller, agent, nil
}

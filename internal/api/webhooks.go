package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nexinsight/nexinsight/internal/db"
	"github.com/nexinsight/nexinsight/internal/models"
	"github.com/nexinsight/nexinsight/internal/scoring"
)

type projectSyncRequest struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Platform       string         `json:"platform"`
	BudgetMin      float64        `json:"budget_min"`
	BudgetMax      float64        `json:"budget_max"`
	SkillsRequired []string       `json:"skills_required"`
	ClientRating   *float64       `json:"client_rating"`
	ClientHistory  *string        `json:"client_history"`
	ProjectURL     *string        `json:"project_url"`
	AIInsights     map[string]any `json:"ai_insights"`
}

// handleProjectSync ingests one project pushed by the automation: validate,
// derive the synthetic metrics, persist with status=active.
func (s *Server) handleProjectSync(c echo.Context) error {
	var req projectSyncRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	var missing []string
	if req.Title == "" {
		missing = append(missing, "title")
	}
	if req.Platform == "" {
		missing = append(missing, "platform")
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Missing required fields: " + strings.Join(missing, ", "),
		})
	}

	metrics := scoring.NewMetrics()
	project := models.Project{
		Title:          req.Title,
		Description:    req.Description,
		Platform:       req.Platform,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		SkillsRequired: req.SkillsRequired,
		NexScore:       metrics.NexScore,
		WinProbability: metrics.WinProbability,
		RiskLevel:      metrics.RiskLevel,
		ClientRating:   req.ClientRating,
		ClientHistory:  req.ClientHistory,
		ProjectURL:     req.ProjectURL,
		AIInsights:     req.AIInsights,
		Status:         "active",
	}

	created, err := s.Store.CreateProject(c.Request().Context(), project)
	if err != nil {
		c.Logger().Errorf("project sync insert failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	// The embedding is a best-effort enrichment; the sync succeeds without it.
	if s.Embedder != nil && created.Description != "" {
		if emb, err := s.Embedder.GenerateEmbedding(c.Request().Context(), created.Description); err != nil {
			c.Logger().Warnf("embedding for project %s failed: %v", created.ID, err)
		} else if err := s.Store.SetProjectEmbedding(c.Request().Context(), created.ID, emb); err != nil {
			c.Logger().Warnf("storing embedding for project %s failed: %v", created.ID, err)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"project": created,
		"message": "Project synchronized successfully",
	})
}

type bidStatusRequest struct {
	ProposalID string `json:"proposal_id"`
	Status     string `json:"status"`
	UserID     string `json:"user_id"`
}

// handleBidStatus updates a proposal's status and, for won/lost outcomes
// with a known user, folds the outcome into that user's analytics.
func (s *Server) handleBidStatus(c echo.Context) error {
	var req bidStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	var missing []string
	if req.ProposalID == "" {
		missing = append(missing, "proposal_id")
	}
	if req.Status == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Missing required fields: " + strings.Join(missing, ", "),
		})
	}

	proposalID, err := uuid.Parse(req.ProposalID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid proposal_id"})
	}

	ctx := c.Request().Context()
	proposal, err := s.Store.UpdateProposalStatus(ctx, proposalID, req.Status)
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Proposal not found"})
	}
	if err != nil {
		c.Logger().Errorf("proposal status update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if req.UserID != "" && scoring.CountsOutcome(req.Status) {
		// A user_id that doesn't parse can never match an analytics row,
		// so it gets the same treatment as a missing record: the status
		// change stands and the outcome update is skipped.
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			c.Logger().Infof("unparseable user_id %q on bid status update, skipping outcome update", req.UserID)
		} else if err := s.applyOutcome(c, userID, req.Status); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"proposal": proposal,
		"message":  "Bid status updated successfully",
	})
}

// applyOutcome loads, folds, and saves the analytics counters. A missing
// analytics record is a silent skip: provisioning happens elsewhere.
func (s *Server) applyOutcome(c echo.Context, userID uuid.UUID, status string) error {
	ctx := c.Request().Context()
	current, err := s.Store.GetAnalytics(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		c.Logger().Infof("no analytics record for user %s, skipping outcome update", userID)
		return nil
	}
	if err != nil {
		c.Logger().Errorf("analytics load failed: %v", err)
		return err
	}

	updated := scoring.ApplyOutcome(*current, status)
	if err := s.Store.SaveAnalytics(ctx, updated); err != nil {
		c.Logger().Errorf("analytics save failed: %v", err)
		return err
	}
	return nil
}

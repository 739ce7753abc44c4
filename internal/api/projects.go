package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nexinsight/nexinsight/internal/db"
)

func (s *Server) handleListProjects(c echo.Context) error {
	filter := db.ProjectFilter{
		Query:     c.QueryParam("q"),
		Platform:  c.QueryParam("platform"),
		RiskLevel: c.QueryParam("risk_level"),
		Status:    c.QueryParam("status"),
	}
	if v := c.QueryParam("min_nex_score"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.MinNexScore = n
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	list, err := s.Store.ListProjects(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetProject(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid project ID"})
	}

	project, err := s.Store.GetProject(c.Request().Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Project not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, project)
}

func (s *Server) handleSimilarProjects(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid project ID"})
	}

	limit := 5
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	similar, err := s.Store.SimilarProjects(c.Request().Context(), id, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"projects": similar})
}

func (s *Server) handleStats(c echo.Context) error {
	ctx := c.Request().Context()

	const cacheKey = "stats:projects"
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
			return c.JSONBlob(http.StatusOK, cached)
		}
	}

	stats, err := s.Store.GetStats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if s.Cache != nil {
		if blob, err := json.Marshal(stats); err == nil {
			_ = s.Cache.Set(ctx, cacheKey, blob, s.cfg.CacheTTLStats)
		}
	}
	return c.JSON(http.StatusOK, stats)
}

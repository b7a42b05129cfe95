package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/Brilu-22/FCalApp3/internal/llm"
	"github.com/Brilu-22/FCalApp3/internal/plan"
	"github.com/Brilu-22/FCalApp3/internal/store"
)

type generatePlanResponse struct {
	AiResponse string `json:"aiResponse"`
}

type savePlanRequest struct {
	Plan plan.GeneratedPlan `json:"plan"`
}

type updateProgressRequest struct {
	WeightChange float64 `json:"weightChange"`
}

func (s *Server) generatePlanHandler(c echo.Context) error {
	var req plan.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	text, err := s.planner.Generate(c.Request().Context(), req)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, generatePlanResponse{AiResponse: text})
}

func (s *Server) savePlanHandler(c echo.Context) error {
	userID := c.Param("user_id")

	var req savePlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	saved, err := s.repo.SavePlan(c.Request().Context(), userID, req.Plan)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Plan saved successfully",
		"planId":      saved.ID,
		"generatedAt": saved.GeneratedAt,
	})
}

func (s *Server) listPlansHandler(c echo.Context) error {
	plans, err := s.repo.Plans(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, plans)
}

func (s *Server) latestPlanHandler(c echo.Context) error {
	latest, err := s.repo.LatestPlan(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, latest)
}

func (s *Server) dashboardHandler(c echo.Context) error {
	userID := c.Param("user_id")
	d, err := s.repo.Dashboard(c.Request().Context(), userID)
	if errors.Is(err, store.ErrNotFound) {
		// New users get an empty dashboard rather than a 404 so the home
		// screen renders before the first plan is saved.
		empty := plan.Dashboard{UserID: userID}
		empty.RecomputeRates()
		return c.JSON(http.StatusOK, empty)
	}
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (s *Server) updateProgressHandler(c echo.Context) error {
	userID := c.Param("user_id")

	var req updateProgressRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	d, err := s.repo.UpdateProgress(c.Request().Context(), userID, req.WeightChange)
	if err != nil {
		return s.writeError(c, err)
	}
	s.hub.TriggerDashboardUpdate(userID)
	return c.JSON(http.StatusOK, d)
}

func (s *Server) workoutCompleteHandler(c echo.Context) error {
	userID := c.Param("user_id")

	d, err := s.repo.MarkWorkoutComplete(c.Request().Context(), userID)
	if err != nil {
		return s.writeError(c, err)
	}
	s.hub.TriggerDashboardUpdate(userID)
	return c.JSON(http.StatusOK, d)
}

func (s *Server) healthHandler(c echo.Context) error {
	ctx := c.Request().Context()

	plans, dashboards, err := s.repo.Counts(ctx)
	storeStatus := "healthy"
	if err != nil {
		log.Error().Err(err).Msg("Health check failed to read store counts")
		storeStatus = "unreachable"
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
		"builtAt": s.startTime,
		"store": map[string]interface{}{
			"status":     storeStatus,
			"plans":      plans,
			"dashboards": dashboards,
		},
		"serverHealth": serverHealth(ctx),
	})
}

// serverHealth collects best-effort host stats; failures degrade to omitted
// fields rather than failing the health check.
func serverHealth(ctx context.Context) map[string]interface{} {
	stats := map[string]interface{}{}
	if v, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats["ram_usage"] = fmt.Sprintf("%.1f%%", v.UsedPercent)
	}
	if cpuPercent, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(cpuPercent) > 0 {
		stats["cpu_load"] = fmt.Sprintf("%.1f%%", cpuPercent[0])
	}
	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		stats["host_uptime_s"] = uptime
	}
	return stats
}

// writeError maps domain errors onto the HTTP contract.
func (s *Server) writeError(c echo.Context, err error) error {
	var ve *plan.ValidationError
	var upstream *llm.UpstreamStatusError

	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error()})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No plan found for this user"})
	case errors.Is(err, llm.ErrNotConfigured):
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "AI provider is not configured"})
	case errors.Is(err, llm.ErrTimeout):
		return c.JSON(http.StatusGatewayTimeout, map[string]string{"error": "AI provider timed out"})
	case errors.Is(err, llm.ErrUnavailable):
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "AI provider is unreachable"})
	case errors.As(err, &upstream):
		status := upstream.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return c.JSON(status, map[string]string{"error": "AI provider rejected the request"})
	case errors.Is(err, llm.ErrProtocol), errors.Is(err, llm.ErrEmpty):
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "AI provider returned an unusable response"})
	case errors.Is(err, context.Canceled):
		// Client went away; 499-style, nothing useful to write.
		return nil
	default:
		log.Error().Err(err).Msg("Unhandled request error")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

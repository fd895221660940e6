package api

import (
	"net/http"

	"github.com/johnahull/AthleteMetrics-sub012/internal/service"
	"github.com/johnahull/AthleteMetrics-sub012/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (h *Handler) AthleteSummary(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	filter, svcErr := measurementFilterFromQuery(e)
	if svcErr != nil {
		return h.transportError(e, svcErr)
	}
	filter.AthleteID = e.Param("id")

	summaries, err := h.analytics.AthleteSummary(e.Request().Context(), filter)
	if err != nil {
		l.Error("failed to summarize athlete",
			zap.String("athlete_id", filter.AthleteID),
			zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, summaries)
}

func (h *Handler) TeamSummary(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("id")

	summaries, err := h.analytics.TeamSummary(e.Request().Context(), teamID)
	if err != nil {
		l.Error("failed to summarize team", zap.String("team_id", teamID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, summaries)
}

func (h *Handler) ProgressionChart(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	athleteID := e.Param("id")
	metricLabel := e.QueryParam("metric")
	if metricLabel == "" {
		return h.transportError(e, service.NewFieldError(
			service.ErrorCodeInvalidBody, "metric", "metric query parameter is required"))
	}

	data, err := h.analytics.ProgressionChart(e.Request().Context(), athleteID, metricLabel)
	if err != nil {
		l.Error("failed to build progression chart",
			zap.String("athlete_id", athleteID),
			zap.String("metric", metricLabel),
			zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, data)
}

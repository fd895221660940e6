package api

import (
	"net/http"

	"github.com/johnahull/AthleteMetrics-sub012/internal/migrate"
	"github.com/johnahull/AthleteMetrics-sub012/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LintMigration checks a SQL migration for destructive statements before
// anyone runs it against a shared database.
func (h *Handler) LintMigration(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		SQL string `json:"sql" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	findings := migrate.Lint(req.SQL)

	response := struct {
		Findings  []migrate.Finding `json:"findings"`
		HasErrors bool              `json:"has_errors"`
	}{Findings: findings, HasErrors: migrate.HasErrors(findings)}

	return e.JSON(http.StatusOK, response)
}

package api

import (
	"net/http"
	"time"

	"github.com/johnahull/AthleteMetrics-sub012/internal/auth"
	"github.com/johnahull/AthleteMetrics-sub012/internal/model"
	"github.com/johnahull/AthleteMetrics-sub012/internal/service"
	"github.com/johnahull/AthleteMetrics-sub012/internal/validate"
	"github.com/johnahull/AthleteMetrics-sub012/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	org         *service.OrganizationService
	team        *service.TeamService
	athlete     *service.AthleteService
	measurement *service.MeasurementService
	invitation  *service.InvitationService
	analytics   *service.AnalyticsService
	importer    *service.ImportService

	healthChecker HealthChecker

	tokenTTL       time.Duration
	maxUploadBytes int64

	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{
		tokenTTL:       24 * time.Hour,
		maxUploadBytes: 10 << 20,
		logger:         logger,
	}
}

func (h *Handler) WithHealthChecker(c HealthChecker) *Handler {
	h.healthChecker = c
	return h
}

func (h *Handler) WithOrganizationService(org *service.OrganizationService) *Handler {
	h.org = org
	return h
}

func (h *Handler) WithTeamService(team *service.TeamService) *Handler {
	h.team = team
	return h
}

func (h *Handler) WithAthleteService(athlete *service.AthleteService) *Handler {
	h.athlete = athlete
	return h
}

func (h *Handler) WithMeasurementService(measurement *service.MeasurementService) *Handler {
	h.measurement = measurement
	return h
}

func (h *Handler) WithInvitationService(invitation *service.InvitationService) *Handler {
	h.invitation = invitation
	return h
}

func (h *Handler) WithAnalyticsService(analytics *service.AnalyticsService) *Handler {
	h.analytics = analytics
	return h
}

func (h *Handler) WithImportService(importer *service.ImportService) *Handler {
	h.importer = importer
	return h
}

func (h *Handler) WithTokenTTL(ttl time.Duration) *Handler {
	h.tokenTTL = ttl
	return h
}

func (h *Handler) WithMaxUploadBytes(n int64) *Handler {
	h.maxUploadBytes = n
	return h
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	e.Use(ZapLoggerMiddleware(h.logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/health", h.healthChecker.HealthCheck())

	// Invitation redemption is the only unauthenticated operation: the
	// token in the body is the credential.
	e.POST("/api/invitations/redeem", h.RedeemInvitation)

	viewer := e.Group("/api", AuthMiddleware(auth.RoleAthlete, auth.RoleCoach, auth.RoleAdmin))

	viewer.GET("/athletes/:id", h.GetAthlete)
	viewer.GET("/teams", h.ListTeams)
	viewer.GET("/teams/:id", h.GetTeam)
	viewer.GET("/measurements", h.ListMeasurements)
	viewer.GET("/analytics/athletes/:id/summary", h.AthleteSummary)
	viewer.GET("/analytics/athletes/:id/progression", h.ProgressionChart)
	viewer.GET("/analytics/teams/:id/summary", h.TeamSummary)

	coach := e.Group("/api", AuthMiddleware(auth.RoleCoach, auth.RoleAdmin))

	coach.POST("/teams", h.CreateTeam)
	coach.POST("/teams/:id/members", h.AddTeamMember)
	coach.DELETE("/teams/:id/members/:athlete_id", h.RemoveTeamMember)
	coach.POST("/athletes", h.UpsertAthlete)
	coach.PATCH("/athletes/:id", h.PatchAthlete)
	coach.POST("/athletes/setIsActive", h.SetAthleteIsActive)
	coach.POST("/measurements", h.RecordMeasurement)
	coach.PATCH("/measurements/:id", h.PatchMeasurement)
	coach.DELETE("/measurements/:id", h.DeleteMeasurement)
	coach.POST("/imports/roster", h.ImportRoster)
	coach.POST("/imports/measurements", h.ImportMeasurements)
	coach.POST("/imports/photo", h.ImportPhoto)
	coach.POST("/invitations", h.CreateInvitation)

	admin := e.Group("/api", AuthMiddleware(auth.RoleAdmin))

	admin.POST("/organizations", h.CreateOrganization)
	admin.GET("/organizations", h.ListOrganizations)
	admin.GET("/organizations/:id", h.GetOrganization)
	admin.POST("/migrations/lint", h.LintMigration)
}

func (h *Handler) CreateOrganization(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	org := &model.Organization{}

	if err := h.decodeRequest(e, org); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("creating organization", zap.String("name", org.Name))

	created, err := h.org.CreateOrganization(e.Request().Context(), org)
	if err != nil {
		l.Error("failed to create organization", zap.String("name", org.Name), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) GetOrganization(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	id := e.Param("id")

	org, err := h.org.GetOrganization(e.Request().Context(), id)
	if err != nil {
		l.Error("failed to get organization", zap.String("organization_id", id), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, org)
}

func (h *Handler) ListOrganizations(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	orgs, err := h.org.ListOrganizations(e.Request().Context())
	if err != nil {
		l.Error("failed to list organizations", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, orgs)
}

func (h *Handler) CreateTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	team := &model.Team{}

	if err := h.decodeRequest(e, team); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	orgID, svcErr := scopedOrgID(e, team.OrganizationID)
	if svcErr != nil {
		return h.transportError(e, svcErr)
	}
	team.OrganizationID = orgID

	l.Info("creating team",
		zap.String("organization_id", team.OrganizationID),
		zap.String("team_name", team.Name))

	created, err := h.team.CreateTeam(e.Request().Context(), team)
	if err != nil {
		l.Error("failed to create team", zap.String("team_name", team.Name), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) GetTeam(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	id := e.Param("id")

	team, err := h.team.GetTeam(e.Request().Context(), id)
	if err != nil {
		l.Error("failed to get team", zap.String("team_id", id), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, team)
}

func (h *Handler) ListTeams(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	orgID, svcErr := scopedOrgID(e, e.QueryParam("organization_id"))
	if svcErr != nil {
		return h.transportError(e, svcErr)
	}

	teams, err := h.team.ListTeams(e.Request().Context(), orgID)
	if err != nil {
		l.Error("failed to list teams", zap.String("organization_id", orgID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, teams)
}

func (h *Handler) AddTeamMember(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("id")

	var req struct {
		AthleteID string `json:"athlete_id" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("adding team member",
		zap.String("team_id", teamID),
		zap.String("athlete_id", req.AthleteID))

	if err := h.team.AddMember(e.Request().Context(), teamID, req.AthleteID); err != nil {
		l.Error("failed to add team member",
			zap.String("team_id", teamID),
			zap.String("athlete_id", req.AthleteID),
			zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) RemoveTeamMember(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	teamID := e.Param("id")
	athleteID := e.Param("athlete_id")

	l.Info("removing team member",
		zap.String("team_id", teamID),
		zap.String("athlete_id", athleteID))

	if err := h.team.RemoveMember(e.Request().Context(), teamID, athleteID); err != nil {
		l.Error("failed to remove team member",
			zap.String("team_id", teamID),
			zap.String("athlete_id", athleteID),
			zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) UpsertAthlete(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	athlete := &model.Athlete{}

	if err := h.decodeRequest(e, athlete); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	orgID, svcErr := scopedOrgID(e, athlete.OrganizationID)
	if svcErr != nil {
		return h.transportError(e, svcErr)
	}
	athlete.OrganizationID = orgID

	l.Info("upserting athlete",
		zap.String("first_name", athlete.FirstName),
		zap.String("last_name", athlete.LastName),
		zap.String("organization_id", athlete.OrganizationID))

	saved, err := h.athlete.UpsertAthlete(e.Request().Context(), athlete)
	if err != nil {
		l.Error("failed to upsert athlete", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, saved)
}

func (h *Handler) GetAthlete(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	id := e.Param("id")

	athlete, err := h.athlete.GetAthlete(e.Request().Context(), id)
	if err != nil {
		l.Error("failed to get athlete", zap.String("athlete_id", id), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, athlete)
}

func (h *Handler) PatchAthlete(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		FirstName        *string `json:"first_name"`
		LastName         *string `json:"last_name"`
		Email            *string `json:"email"`
		Sport            *string `json:"sport"`
		School           *string `json:"school"`
		CompetitiveLevel *int    `json:"competitive_level"`
		IsActive         *bool   `json:"is_active"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	patch := &model.AthletePatch{
		ID:               e.Param("id"),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Sport:            req.Sport,
		School:           req.School,
		CompetitiveLevel: req.CompetitiveLevel,
		IsActive:         req.IsActive,
	}

	l.Info("patching athlete", zap.String("athlete_id", patch.ID))

	athlete, err := h.athlete.PatchAthlete(e.Request().Context(), patch)
	if err != nil {
		l.Error("failed to patch athlete", zap.String("athlete_id", patch.ID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, athlete)
}

func (h *Handler) SetAthleteIsActive(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		AthleteID string `json:"athlete_id" validate:"required"`
		IsActive  bool   `json:"is_active"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("setting athlete active status",
		zap.String("athlete_id", req.AthleteID),
		zap.Bool("is_active", req.IsActive))

	athlete, err := h.athlete.SetAthleteIsActive(e.Request().Context(), req.AthleteID, req.IsActive)
	if err != nil {
		l.Error("failed to set athlete active status",
			zap.String("athlete_id", req.AthleteID),
			zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, athlete)
}

func (h *Handler) RecordMeasurement(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	meas := &model.Measurement{}

	if err := h.decodeRequest(e, meas); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	l.Info("recording measurement",
		zap.String("athlete_id", meas.AthleteID),
		zap.String("metric", meas.Metric),
		zap.Float64("value", meas.Value))

	created, err := h.measurement.RecordMeasurement(e.Request().Context(), meas)
	if err != nil {
		l.Error("failed to record measurement",
			zap.String("athlete_id", meas.AthleteID),
			zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) ListMeasurements(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	filter, svcErr := measurementFilterFromQuery(e)
	if svcErr != nil {
		l.Error("invalid filter", zap.Any("error", svcErr))
		return h.transportError(e, svcErr)
	}

	measurements, err := h.measurement.ListMeasurements(e.Request().Context(), filter)
	if err != nil {
		l.Error("failed to list measurements", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, measurements)
}

func (h *Handler) PatchMeasurement(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Value      *float64   `json:"value"`
		RecordedAt *time.Time `json:"recorded_at"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	patch := &model.MeasurementPatch{
		ID:         e.Param("id"),
		Value:      req.Value,
		RecordedAt: req.RecordedAt,
	}

	l.Info("patching measurement", zap.String("measurement_id", patch.ID))

	meas, err := h.measurement.PatchMeasurement(e.Request().Context(), patch)
	if err != nil {
		l.Error("failed to patch measurement", zap.String("measurement_id", patch.ID), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusOK, meas)
}

func (h *Handler) DeleteMeasurement(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	id := e.Param("id")

	l.Info("deleting measurement", zap.String("measurement_id", id))

	if err := h.measurement.DeleteMeasurement(e.Request().Context(), id); err != nil {
		l.Error("failed to delete measurement", zap.String("measurement_id", id), zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateInvitation(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	inv := &model.Invitation{}

	if err := h.decodeRequest(e, inv); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	orgID, svcErr := scopedOrgID(e, inv.OrganizationID)
	if svcErr != nil {
		return h.transportError(e, svcErr)
	}
	inv.OrganizationID = orgID

	l.Info("creating invitation",
		zap.String("organization_id", inv.OrganizationID),
		zap.String("role", inv.Role))

	created, err := h.invitation.CreateInvitation(e.Request().Context(), inv)
	if err != nil {
		l.Error("failed to create invitation", zap.Any("error", err))
		return h.transportError(e, err)
	}

	return e.JSON(http.StatusCreated, created)
}

func (h *Handler) RedeemInvitation(e echo.Context) error {
	l := logger.FromContext(e.Request().Context())

	var req struct {
		Token    string `json:"token" validate:"required"`
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.decodeRequest(e, &req); err != nil {
		l.Error("invalid request", zap.Any("error", err))
		return h.transportError(e, err)
	}

	if err := validate.Username(req.Username); err != nil {
		return h.transportError(e, service.NewFieldError(service.ErrorCodeInvalidBody, "username", err.Error()))
	}
	if err := validate.Password(req.Password); err != nil {
		return h.transportError(e, service.NewFieldError(service.ErrorCodeInvalidBody, "password", err.Error()))
	}

	inv, err := h.invitation.RedeemInvitation(e.Request().Context(), req.Token)
	if err != nil {
		l.Error("failed to redeem invitation", zap.Any("error", err))
		return h.transportError(e, err)
	}

	accessToken, tokenErr := auth.GenerateToken(auth.Role(inv.Role), inv.OrganizationID, h.tokenTTL)
	if tokenErr != nil {
		l.Error("failed to issue access token", zap.Error(tokenErr))
		return h.transportError(e, service.NewServiceError(service.ErrorCodeUnspecified, "failed to issue access token"))
	}

	l.Info("invitation redeemed",
		zap.String("invitation_id", inv.ID),
		zap.String("organization_id", inv.OrganizationID))

	response := struct {
		Invitation  *model.Invitation `json:"invitation"`
		AccessToken string            `json:"access_token"`
	}{Invitation: inv, AccessToken: accessToken}

	return e.JSON(http.StatusOK, response)
}

// scopedOrgID resolves the organization a request may act on. Admin tokens
// may name any organization; everyone else is confined to the one in their
// token, and an empty request falls back to it.
func scopedOrgID(e echo.Context, requested string) (string, *service.Error) {
	claims := ClaimsFromContext(e)
	if requested == "" {
		requested = claims.OrganizationID
	}
	if claims.Role != auth.RoleAdmin && requested != claims.OrganizationID {
		return "", service.NewServiceError(service.ErrorCodeForbidden, "organization outside token scope")
	}
	return requested, nil
}

func measurementFilterFromQuery(e echo.Context) (*model.MeasurementFilter, *service.Error) {
	filter := &model.MeasurementFilter{
		AthleteID: e.QueryParam("athlete_id"),
		TeamID:    e.QueryParam("team_id"),
		Metric:    e.QueryParam("metric"),
	}

	if raw := e.QueryParam("from"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			return nil, service.NewFieldError(service.ErrorCodeInvalidBody, "from", "expected RFC 3339 or YYYY-MM-DD")
		}
		filter.From = &t
	}
	if raw := e.QueryParam("to"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			return nil, service.NewFieldError(service.ErrorCodeInvalidBody, "to", "expected RFC 3339 or YYYY-MM-DD")
		}
		filter.To = &t
	}
	return filter, nil
}

func parseTimeParam(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (h *Handler) decodeRequest(e echo.Context, req any) *service.Error {
	if err := e.Bind(req); err != nil {
		return service.NewServiceError(service.ErrorCodeInvalidBody, "invalid request body")
	}

	if err := e.Validate(req); err != nil {
		return service.NewServiceError(service.ErrorCodeInvalidBody, errors.Wrap(err, "request validation failed").Error())
	}
	return nil
}

func (h *Handler) transportError(e echo.Context, err *service.Error) error {
	response := struct {
		Error *service.Error `json:"error"`
	}{Error: err}

	switch err.Code {
	case service.ErrorCodeNotFound:
		return e.JSON(http.StatusNotFound, response)
	case service.ErrorCodeForbidden:
		return e.JSON(http.StatusForbidden, response)
	case service.ErrorCodeOrgExists, service.ErrorCodeTeamExists:
		return e.JSON(http.StatusConflict, response)
	case service.ErrorCodeInvalidBody, service.ErrorCodeUnknownMetric, service.ErrorCodeValueOutOfRange:
		return e.JSON(http.StatusBadRequest, response)
	case service.ErrorCodeInviteRedeemed, service.ErrorCodeAthleteInactive:
		return e.JSON(http.StatusConflict, response)
	case service.ErrorCodeInviteExpired:
		return e.JSON(http.StatusGone, response)
	case service.ErrorCodeUploadTooLarge:
		return e.JSON(http.StatusRequestEntityTooLarge, response)
	case service.ErrorCodeUnsupportedMedia:
		return e.JSON(http.StatusUnsupportedMediaType, response)
	default:
		return e.JSON(http.StatusInternalServerError, response)
	}
}

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/johnahull/AthleteMetrics-sub012/internal/auth"
	"github.com/johnahull/AthleteMetrics-sub012/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithClaims(e *echo.Echo, claims *auth.TokenClaims) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set(claimsContextKey, claims)
	return c
}

func TestScopedOrgID(t *testing.T) {
	tests := []struct {
		name      string
		role      auth.Role
		tokenOrg  string
		requested string
		expected  string
		forbidden bool
	}{
		{
			name:      "coach inside own organization",
			role:      auth.RoleCoach,
			tokenOrg:  "org-1",
			requested: "org-1",
			expected:  "org-1",
		},
		{
			name:     "empty request falls back to token organization",
			role:     auth.RoleCoach,
			tokenOrg: "org-1",
			expected: "org-1",
		},
		{
			name:      "coach cannot reach another organization",
			role:      auth.RoleCoach,
			tokenOrg:  "org-1",
			requested: "org-2",
			forbidden: true,
		},
		{
			name:      "admin may name any organization",
			role:      auth.RoleAdmin,
			tokenOrg:  "org-1",
			requested: "org-2",
			expected:  "org-2",
		},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := contextWithClaims(e, &auth.TokenClaims{Role: tt.role, OrganizationID: tt.tokenOrg})

			got, err := scopedOrgID(c, tt.requested)

			if tt.forbidden {
				require.NotNil(t, err)
				assert.Equal(t, service.ErrorCodeForbidden, err.Code)
			} else {
				require.Nil(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	auth.TokenSecretKey = "test-secret"

	coachToken, err := auth.GenerateToken(auth.RoleCoach, "org-1", time.Hour)
	require.NoError(t, err)
	athleteToken, err := auth.GenerateToken(auth.RoleAthlete, "org-1", time.Hour)
	require.NoError(t, err)

	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	handler := AuthMiddleware(auth.RoleCoach, auth.RoleAdmin)(next)

	run := func(authorization string) (echo.Context, error) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authorization != "" {
			req.Header.Set(echo.HeaderAuthorization, authorization)
		}
		c := e.NewContext(req, httptest.NewRecorder())
		return c, handler(c)
	}

	t.Run("valid token passes and stores claims", func(t *testing.T) {
		c, err := run("Bearer " + coachToken)
		require.NoError(t, err)

		claims := ClaimsFromContext(c)
		assert.Equal(t, auth.RoleCoach, claims.Role)
		assert.Equal(t, "org-1", claims.OrganizationID)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		_, err := run("")
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		_, err := run("Bearer not-a-token")
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("role outside the allowed set is forbidden", func(t *testing.T) {
		_, err := run("Bearer " + athleteToken)
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkease/parking-slot-reservation/internal/utils"
)

const testSecret = "unit-test-secret"

func protectedEcho(roles ...string) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1")
	g.Use(JWTAuth(testSecret))
	if len(roles) > 0 {
		g.Use(RequireRole(roles...))
	}
	g.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	})
	return e
}

func doAuthed(e *echo.Echo, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := protectedEcho()

	t.Run("valid token passes and populates identity", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 9, "OWNER", 5)
		require.NoError(t, err)
		rec := doAuthed(e, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"role":"OWNER"`)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		rec := doAuthed(e, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		rec := doAuthed(e, "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		tok, err := utils.NewAccessToken("other-secret", 9, "OWNER", 5)
		require.NoError(t, err)
		rec := doAuthed(e, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	e := protectedEcho("OWNER")

	t.Run("matching role passes", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 1, "OWNER", 5)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, doAuthed(e, "Bearer "+tok.Token).Code)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 2, "RENTER", 5)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, doAuthed(e, "Bearer "+tok.Token).Code)
	})
}

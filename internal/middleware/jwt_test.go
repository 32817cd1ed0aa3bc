package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kchestnov/plutarch/internal/utils"
)

const testSecret = "test-secret"

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/2026-09-06/roster", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c, called
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, "@a", "member", 15)
	require.NoError(t, err)

	rec, c, called := runJWT(t, "Bearer "+access.Token)
	require.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "@a", c.Get("user_name"))
	assert.Equal(t, "member", c.Get("role"))
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, _, called := runJWT(t, "")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsForeignSignature(t *testing.T) {
	access, err := utils.NewAccessToken("other-secret", "@a", "member", 15)
	require.NoError(t, err)

	rec, _, called := runJWT(t, "Bearer "+access.Token)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, "@a", "member", -1)
	require.NoError(t, err)

	rec, _, called := runJWT(t, "Bearer "+access.Token)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role interface{}) (*httptest.ResponseRecorder, bool) {
		req := httptest.NewRequest(http.MethodPost, "/v1/sessions/2026-09-06/settle", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		called := false
		h := RequireRole("admin")(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, h(c))
		return rec, called
	}

	rec, called := run("admin")
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, called = run("member")
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, called = run(nil)
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

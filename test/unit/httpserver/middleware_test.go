package httpserver_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/newriverone/portal/internal/infrastructure/httpserver/middleware"
	"github.com/newriverone/portal/test/mocks"
)

func TestGateMiddleware_MissingTokenReturns401(t *testing.T) {
	e := echo.New()
	m := middleware.NewGateMiddleware(&mocks.GateServiceMock{}, logrus.New())
	handler := m.RequireGate()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := handler(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, htErr.Code)
}

func TestGateMiddleware_NonBearerHeaderReturns401(t *testing.T) {
	e := echo.New()
	m := middleware.NewGateMiddleware(&mocks.GateServiceMock{}, logrus.New())
	handler := m.RequireGate()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := handler(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, htErr.Code)
}

func TestGateMiddleware_InvalidTokenReturns401(t *testing.T) {
	e := echo.New()
	gateMock := &mocks.GateServiceMock{VerifyFn: func(token string) error {
		return fmt.Errorf("bad token")
	}}
	m := middleware.NewGateMiddleware(gateMock, logrus.New())
	handler := m.RequireGate()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := handler(c)
	require.Error(t, err)
	htErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, htErr.Code)
}

func TestGateMiddleware_ValidTokenPasses(t *testing.T) {
	e := echo.New()
	var seen string
	gateMock := &mocks.GateServiceMock{VerifyFn: func(token string) error {
		seen = token
		return nil
	}}
	m := middleware.NewGateMiddleware(gateMock, logrus.New())
	handler := m.RequireGate()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer gate-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, handler(c))
	require.Equal(t, "gate-token", seen)
	require.Equal(t, http.StatusOK, rec.Code)
}

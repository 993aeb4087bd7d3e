package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newriverone/portal/internal/application/services"
)

type gateRequest struct {
	Password string `json:"password"`
}

type gateResponse struct {
	Token string `json:"token"`
}

func (s *Server) unlockGate(c echo.Context) error {
	var req gateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	token, err := s.gateSvc.Unlock(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrPasswordIncorrect) {
			return echo.NewHTTPError(http.StatusUnauthorized, "password incorrect")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, gateResponse{Token: token})
}

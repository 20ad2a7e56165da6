package handlers

import (
	"net/http"

	"bank-gateway/internal/config"
	"bank-gateway/internal/services"

	"github.com/labstack/echo/v4"
)

// HomeHandler serves the aggregated account view
type HomeHandler struct {
	aggregator services.AggregatorInterface
	verifier   services.TokenVerifier
	bankName   string
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(aggregator services.AggregatorInterface, verifier services.TokenVerifier, bankName string) *HomeHandler {
	return &HomeHandler{
		aggregator: aggregator,
		verifier:   verifier,
		bankName:   bankName,
	}
}

// Root dispatches to the home or login view depending on authentication
// status
func (h *HomeHandler) Root(c echo.Context) error {
	cookie, err := c.Cookie(config.TokenCookieName)
	if err != nil || !h.verifier.Verify(cookie.Value) {
		return c.Redirect(http.StatusFound, "/login")
	}
	return c.Redirect(http.StatusFound, "/home")
}

// Home fans out the backend calls and returns the aggregate view. The auth
// middleware has already verified the credential and redirected
// unauthenticated users to login; partial backend failures degrade their
// sections rather than failing the page.
func (h *HomeHandler) Home(c echo.Context) error {
	token := getToken(c)
	claims := getClaims(c)
	if token == "" || claims == nil {
		return c.Redirect(http.StatusFound, "/login")
	}

	view := h.aggregator.HomeView(c.Request().Context(), token, claims)

	return c.JSON(http.StatusOK, SuccessResponse{
		Data:    view,
		Message: c.QueryParam("msg"),
	})
}

package handlers

import (
	"fmt"
	"net/http"

	"bank-gateway/internal/metadata"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves probes and placement info
type HealthHandler struct {
	version   string
	placement metadata.Placement
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, placement metadata.Placement) *HealthHandler {
	return &HealthHandler{version: version, placement: placement}
}

// Version returns the running service version
func (h *HealthHandler) Version(c echo.Context) error {
	return c.String(http.StatusOK, h.version)
}

// Ready is the readiness probe
func (h *HealthHandler) Ready(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Whereami reports the cluster, pod and zone this instance runs in
func (h *HealthHandler) Whereami(c echo.Context) error {
	return c.String(http.StatusOK, fmt.Sprintf(
		"Cluster: %s, Pod: %s, Zone: %s",
		h.placement.Cluster, h.placement.Pod, h.placement.Zone,
	))
}

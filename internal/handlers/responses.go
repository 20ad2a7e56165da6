package handlers

import (
	"net/http"
	"net/url"

	"bank-gateway/internal/errors"
	"bank-gateway/internal/models"

	"github.com/labstack/echo/v4"
)

// Context keys set by the middleware package. Duplicated here to avoid an
// import cycle (middleware imports this package for SendError).
const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
	// TokenContextKey holds the verified bearer credential string
	TokenContextKey = "credential_token"
	// ClaimsContextKey holds the decoded identity claims
	ClaimsContextKey = "identity_claims"
)

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// getToken extracts the verified credential placed on the context by the
// auth middleware
func getToken(c echo.Context) string {
	token, ok := c.Get(TokenContextKey).(string)
	if !ok {
		return ""
	}
	return token
}

// getClaims extracts the decoded identity claims placed on the context by
// the auth middleware
func getClaims(c echo.Context) *models.IdentityClaims {
	claims, ok := c.Get(ClaimsContextKey).(*models.IdentityClaims)
	if !ok {
		return nil
	}
	return claims
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError wraps a system error with a generic message so internal
// details never reach the client
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, _ := errors.WrapSystemError(err, traceID)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}

// redirectHome redirects to the home view carrying a human-readable status
// message as a query parameter. State-changing operations use 303 per the
// redirect-after-POST contract; msg may be empty.
func redirectHome(c echo.Context, code int, msg string) error {
	return redirectWithMessage(c, code, "/home", msg)
}

// redirectLogin redirects to the login view with an optional message
func redirectLogin(c echo.Context, code int, msg string) error {
	return redirectWithMessage(c, code, "/login", msg)
}

func redirectWithMessage(c echo.Context, code int, path, msg string) error {
	if msg != "" {
		path = path + "?msg=" + url.QueryEscape(msg)
	}
	return c.Redirect(code, path)
}

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"bank-gateway/internal/config"
	"bank-gateway/internal/errors"
	"bank-gateway/internal/services"

	"github.com/labstack/echo/v4"
)

// StatementHandler relays statement PDFs and dispatches statement e-mails
type StatementHandler struct {
	statements services.StatementServiceInterface
	users      services.UserServiceInterface
	mailer     services.Mailer
	mail       config.MailConfig
}

// NewStatementHandler creates a new statement handler
func NewStatementHandler(
	statements services.StatementServiceInterface,
	users services.UserServiceInterface,
	mailer services.Mailer,
	mail config.MailConfig,
) *StatementHandler {
	return &StatementHandler{
		statements: statements,
		users:      users,
		mailer:     mailer,
		mail:       mail,
	}
}

// StatementPDF forwards the document request to the history service and
// streams the PDF back byte-exact
func (h *StatementHandler) StatementPDF(c echo.Context) error {
	accountID := c.Param("account_id")
	startDate := c.QueryParam("startDate")
	endDate := c.QueryParam("endDate")

	if startDate == "" || endDate == "" {
		return SendError(c, errors.ValidationRequiredField,
			errors.WithDetails("startDate and endDate are required"))
	}

	content, contentType, err := h.statements.FetchPDF(
		c.Request().Context(), accountID, startDate, endDate, getToken(c))
	if err != nil {
		slog.Error("error generating statement", "account_id", accountID, "error", err)
		return SendError(c, errors.UpstreamRelayFailed,
			errors.WithMessage("Failed to generate statement"))
	}

	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=statement_%s.pdf", accountID))
	return c.Blob(http.StatusOK, contentType, content)
}

type statementEmailRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

// SendStatementEmail mails the statement PDF to the user's registered
// address. The feature reports 503 when mail settings are missing instead
// of failing at startup.
func (h *StatementHandler) SendStatementEmail(c echo.Context) error {
	if !h.mail.Configured() {
		return SendError(c, errors.ConfigMailUnavailable)
	}

	token := getToken(c)
	claims := getClaims(c)
	accountID := c.Param("account_id")

	var req statementEmailRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral)
	}
	if err := c.Validate(&req); err != nil {
		return SendError(c, errors.ValidationRequiredField,
			errors.WithDetails("startDate and endDate are required"))
	}

	email, err := h.users.GetUserEmail(c.Request().Context(), token, claims.Username)
	if err != nil {
		slog.Error("failed to resolve user email", "username", claims.Username, "error", err)
		return SendError(c, errors.UpstreamRelayFailed,
			errors.WithMessage("Failed to fetch user data"))
	}

	content, _, err := h.statements.FetchPDF(
		c.Request().Context(), accountID, req.StartDate, req.EndDate, token)
	if err != nil {
		slog.Error("error generating statement for email", "account_id", accountID, "error", err)
		return SendError(c, errors.UpstreamRelayFailed,
			errors.WithMessage("Failed to generate statement"))
	}

	firstname, _, _ := strings.Cut(claims.DisplayName, " ")
	if err := h.mailer.SendStatement(email, firstname, req.StartDate, req.EndDate, content); err != nil {
		slog.Error("failed to send statement email", "error", err)
		return SendError(c, errors.UpstreamRelayFailed,
			errors.WithMessage("Failed to send email"))
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Statement sent successfully"})
}

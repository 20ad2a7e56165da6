package handlers

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	"bank-gateway/internal/errors"
	"bank-gateway/internal/models"
	"bank-gateway/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransactionHandler handles payment and deposit submissions to the ledger.
// Both run behind the credential middleware: an unauthenticated submission
// fails closed with 401 before any form field is read.
type TransactionHandler struct {
	ledger          services.LedgerServiceInterface
	contacts        services.ContactsServiceInterface
	localRoutingNum string
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(
	ledger services.LedgerServiceInterface,
	contacts services.ContactsServiceInterface,
	localRoutingNum string,
) *TransactionHandler {
	return &TransactionHandler{
		ledger:          ledger,
		contacts:        contacts,
		localRoutingNum: localRoutingNum,
	}
}

// Payment submits a payment to the ledgerwriter. Choosing "add" as the
// recipient creates a new local contact first when a label was provided.
func (h *TransactionHandler) Payment(c echo.Context) error {
	token := getToken(c)
	claims := getClaims(c)

	recipient := c.FormValue("account_num")
	if recipient == "add" {
		recipient = c.FormValue("contact_account_num")
		if label := c.FormValue("contact_label"); label != "" {
			contact := models.Contact{
				Label:      label,
				AccountNum: recipient,
				RoutingNum: h.localRoutingNum,
				IsExternal: false,
			}
			if err := h.contacts.AddContact(c.Request().Context(), token, claims.Username, contact); err != nil {
				slog.Error("error submitting payment", "error", err)
				return redirectHome(c, http.StatusFound, failureMessage("Payment", err))
			}
		}
	}

	amount, err := services.ParseAmount(c.FormValue("amount"))
	if err != nil {
		slog.Error("error submitting payment", "error", err)
		return redirectHome(c, http.StatusFound, failureMessage("Payment", err))
	}

	idempotencyKey := c.FormValue("uuid")
	if _, err := uuid.Parse(idempotencyKey); err != nil {
		return SendError(c, errors.ValidationRequiredField,
			errors.WithDetails("uuid: a valid idempotency key is required"))
	}

	tx := models.TransactionSubmission{
		FromAccountNum: claims.AccountID,
		FromRoutingNum: h.localRoutingNum,
		ToAccountNum:   recipient,
		ToRoutingNum:   h.localRoutingNum,
		Amount:         amount,
		UUID:           idempotencyKey,
	}

	if err := h.ledger.Submit(c.Request().Context(), tx, token); err != nil {
		slog.Error("error submitting payment", "error", err)
		return redirectHome(c, http.StatusFound, failureMessage("Payment", err))
	}

	slog.Info("payment initiated successfully")
	return redirectHome(c, http.StatusSeeOther, "Payment successful")
}

// depositAccount is the saved-contact form value on the deposit form
type depositAccount struct {
	AccountNum string `json:"account_num"`
	RoutingNum string `json:"routing_num"`
}

// Deposit submits a deposit from an external account. Deposits from the
// local routing number are rejected before the ledger is ever called.
func (h *TransactionHandler) Deposit(c echo.Context) error {
	token := getToken(c)
	claims := getClaims(c)

	var externalAccountNum, externalRoutingNum string
	if c.FormValue("account") == "add" {
		externalAccountNum = c.FormValue("external_account_num")
		externalRoutingNum = c.FormValue("external_routing_num")

		// Self-deposit guard: an "external" account on our own routing
		// number would round-trip money through the ledger
		if externalRoutingNum == h.localRoutingNum {
			slog.Error("error submitting deposit: invalid routing number")
			return redirectHome(c, http.StatusFound, "Deposit failed: invalid routing number")
		}

		if label := c.FormValue("external_label"); label != "" {
			contact := models.Contact{
				Label:      label,
				AccountNum: externalAccountNum,
				RoutingNum: externalRoutingNum,
				IsExternal: true,
			}
			if err := h.contacts.AddContact(c.Request().Context(), token, claims.Username, contact); err != nil {
				slog.Error("error submitting deposit", "error", err)
				return redirectHome(c, http.StatusFound, failureMessage("Deposit", err))
			}
		}
	} else {
		var account depositAccount
		if err := json.Unmarshal([]byte(c.FormValue("account")), &account); err != nil {
			return SendError(c, errors.ValidationRequiredField,
				errors.WithDetails("account: a saved external account is required"))
		}
		externalAccountNum = account.AccountNum
		externalRoutingNum = account.RoutingNum
	}

	amount, err := services.ParseAmount(c.FormValue("amount"))
	if err != nil {
		slog.Error("error submitting deposit", "error", err)
		return redirectHome(c, http.StatusFound, failureMessage("Deposit", err))
	}

	idempotencyKey := c.FormValue("uuid")
	if _, err := uuid.Parse(idempotencyKey); err != nil {
		return SendError(c, errors.ValidationRequiredField,
			errors.WithDetails("uuid: a valid idempotency key is required"))
	}

	tx := models.TransactionSubmission{
		FromAccountNum: externalAccountNum,
		FromRoutingNum: externalRoutingNum,
		ToAccountNum:   claims.AccountID,
		ToRoutingNum:   h.localRoutingNum,
		Amount:         amount,
		UUID:           idempotencyKey,
	}

	if err := h.ledger.Submit(c.Request().Context(), tx, token); err != nil {
		slog.Error("error submitting deposit", "error", err)
		return redirectHome(c, http.StatusFound, failureMessage("Deposit", err))
	}

	slog.Info("deposit submitted successfully")
	return redirectHome(c, http.StatusSeeOther, "Deposit successful")
}

// failureMessage converts a submission failure into the user-facing redirect
// message. Backend rejections carry their reason verbatim; transport
// failures stay generic so internals never leak.
func failureMessage(operation string, err error) string {
	var validation *services.ValidationFailure
	if stderrors.As(err, &validation) {
		return operation + " failed: " + validation.Reason
	}
	return operation + " failed"
}

package handlers

import (
	"net/http"
	"net/url"

	"bank-gateway/internal/config"
	"bank-gateway/internal/services"

	"github.com/labstack/echo/v4"
)

// ConsentHandler runs the user-facing half of the consent relay. The state
// and redirect URI are opaque round-trip values; the consent decision lives
// only in a client-side flag cookie.
type ConsentHandler struct {
	oauthService services.OAuthServiceInterface
	verifier     services.TokenVerifier
	bankName     string
}

// NewConsentHandler creates a new consent handler
func NewConsentHandler(oauthService services.OAuthServiceInterface, verifier services.TokenVerifier, bankName string) *ConsentHandler {
	return &ConsentHandler{
		oauthService: oauthService,
		verifier:     verifier,
		bankName:     bankName,
	}
}

type consentView struct {
	BankName    string `json:"bank_name"`
	AppName     string `json:"app_name,omitempty"`
	RedirectURI string `json:"redirect_uri"`
	State       string `json:"state"`
}

// ConsentPage serves the consent view. A user who already consented (flag
// cookie set) skips straight to code issuance; an unauthenticated user is
// bounced to login with the OAuth parameters preserved.
func (h *ConsentHandler) ConsentPage(c echo.Context) error {
	redirectURI := c.QueryParam("redirect_uri")
	state := c.QueryParam("state")
	appName := c.QueryParam("app_name")

	token := tokenFromCookie(c)
	if !h.verifier.Verify(token) {
		params := url.Values{}
		params.Set("response_type", "code")
		params.Set("state", state)
		params.Set("redirect_uri", redirectURI)
		params.Set("app_name", appName)
		return c.Redirect(http.StatusFound, "/login?"+params.Encode())
	}

	if consented, err := c.Cookie(config.ConsentCookieName); err == nil && consented.Value == "true" {
		return h.relay(c, state, redirectURI, token)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: consentView{
			BankName:    h.bankName,
			AppName:     appName,
			RedirectURI: redirectURI,
			State:       state,
		},
	})
}

// Consent records the consent decision. Granting relays the credential and
// remembers the decision in the flag cookie; denying sends the relying
// application an access_denied fragment.
func (h *ConsentHandler) Consent(c echo.Context) error {
	consent := c.QueryParam("consent")
	state := c.QueryParam("state")
	redirectURI := c.QueryParam("redirect_uri")

	token := tokenFromCookie(c)
	if !h.verifier.Verify(token) {
		return echo.NewHTTPError(http.StatusUnauthorized)
	}

	if consent != "true" {
		return c.Redirect(http.StatusFound, redirectURI+"#error=access_denied")
	}

	c.SetCookie(&http.Cookie{
		Name:  config.ConsentCookieName,
		Value: "true",
		Path:  "/",
	})
	return h.relay(c, state, redirectURI, token)
}

// relay hands the verified credential to the relying application's callback
// and forwards the resulting authorization-code redirect to the end user.
// Any relay failure degrades to a generic server_error fragment.
func (h *ConsentHandler) relay(c echo.Context, state, redirectURI, token string) error {
	location, err := h.oauthService.RelayAuthCode(c.Request().Context(), state, redirectURI, token)
	if err != nil {
		return c.Redirect(http.StatusFound, redirectURI+"#error=server_error")
	}
	return c.Redirect(http.StatusFound, location)
}

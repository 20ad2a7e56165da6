package handlers

import (
	"net/http"
	"net/url"

	"bank-gateway/internal/config"
	"bank-gateway/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandler drives login, signup and logout against the identity
// authority, plus the OAuth entry point of the consent flow.
type AuthHandler struct {
	userService  services.UserServiceInterface
	oauthService services.OAuthServiceInterface
	verifier     services.TokenVerifier
	oauthEnabled bool
	bankName     string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userService services.UserServiceInterface,
	oauthService services.OAuthServiceInterface,
	verifier services.TokenVerifier,
	oauthEnabled bool,
	bankName string,
) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		oauthService: oauthService,
		verifier:     verifier,
		oauthEnabled: oauthEnabled,
		bankName:     bankName,
	}
}

// loginView is the data the login page renders from
type loginView struct {
	BankName     string `json:"bank_name"`
	AppName      string `json:"app_name,omitempty"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
	ResponseType string `json:"response_type,omitempty"`
	State        string `json:"state,omitempty"`
}

// LoginPage serves the login view. An already-authenticated user is sent to
// home, or straight to consent when this is an OAuth authorization request.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	responseType := c.QueryParam("response_type")
	clientID := c.QueryParam("client_id")
	appName := c.QueryParam("app_name")
	redirectURI := c.QueryParam("redirect_uri")
	state := c.QueryParam("state")

	token := tokenFromCookie(c)

	if h.oauthEnabled && responseType == "code" {
		// Allow-list check happens before any credential is consulted
		if err := h.oauthService.ValidateConsentRequest(clientID, redirectURI); err != nil {
			return redirectLogin(c, http.StatusFound, err.Error())
		}
		if h.verifier.Verify(token) {
			return c.Redirect(http.StatusFound, consentURL(state, redirectURI, appName))
		}
	} else if h.verifier.Verify(token) {
		return c.Redirect(http.StatusFound, "/home")
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: loginView{
			BankName:     h.bankName,
			AppName:      appName,
			RedirectURI:  redirectURI,
			ResponseType: responseType,
			State:        state,
		},
		Message: c.QueryParam("msg"),
	})
}

// Login forwards the submitted credentials to the identity authority and
// hands the signed credential back to the caller as a cookie
func (h *AuthHandler) Login(c echo.Context) error {
	return h.loginHelper(c, c.FormValue("username"), c.FormValue("password"))
}

// Signup creates a new user via the userservice, then chains straight into
// login with the same credentials
func (h *AuthHandler) Signup(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return redirectLogin(c, http.StatusFound, "Error: Account creation failed")
	}

	if err := h.userService.Signup(c.Request().Context(), form); err != nil {
		return redirectLogin(c, http.StatusFound, "Error: Account creation failed")
	}

	return h.loginHelper(c, c.FormValue("username"), c.FormValue("password"))
}

// Logout deletes the credential and consent cookies. The gateway never
// stored the credential server-side, so this is the entire teardown.
func (h *AuthHandler) Logout(c echo.Context) error {
	deleteCookie(c, config.TokenCookieName)
	deleteCookie(c, config.ConsentCookieName)
	return c.Redirect(http.StatusFound, "/login")
}

// loginHelper performs the login round trip shared by Login and Signup. The
// cookie lifetime is sized exactly to the credential's validity window
// (exp - iat), so the browser drops it when the credential would stop
// verifying anyway.
func (h *AuthHandler) loginHelper(c echo.Context, username, password string) error {
	token, err := h.userService.Login(c.Request().Context(), username, password)
	if err != nil {
		return redirectLogin(c, http.StatusFound, "Login Failed")
	}

	maxAge, err := h.verifier.CookieMaxAge(token)
	if err != nil {
		return redirectLogin(c, http.StatusFound, "Login Failed")
	}

	c.SetCookie(&http.Cookie{
		Name:   config.TokenCookieName,
		Value:  token,
		MaxAge: int(maxAge.Seconds()),
		Path:   "/",
	})

	// An OAuth authorization request resumes the consent flow after login
	if c.QueryParam("response_type") == "code" &&
		c.QueryParam("state") != "" &&
		c.QueryParam("redirect_uri") != "" {
		return c.Redirect(http.StatusFound, consentURL(
			c.QueryParam("state"),
			c.QueryParam("redirect_uri"),
			c.QueryParam("app_name"),
		))
	}

	return c.Redirect(http.StatusFound, "/home")
}

func consentURL(state, redirectURI, appName string) string {
	params := url.Values{}
	params.Set("state", state)
	params.Set("redirect_uri", redirectURI)
	params.Set("app_name", appName)
	return "/consent?" + params.Encode()
}

func tokenFromCookie(c echo.Context) string {
	cookie, err := c.Cookie(config.TokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func deleteCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:   name,
		Value:  "",
		MaxAge: -1,
		Path:   "/",
	})
}

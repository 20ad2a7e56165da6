package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"bank-gateway/internal/config"
	"bank-gateway/internal/models"
	"bank-gateway/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

// stubVerifier treats a single known credential string as valid
type stubVerifier struct {
	validToken string
	maxAge     time.Duration
	maxAgeErr  error
}

func (s *stubVerifier) Verify(tokenString string) bool {
	return tokenString != "" && tokenString == s.validToken
}

func (s *stubVerifier) DecodeUnverified(string) (*models.IdentityClaims, error) {
	return &models.IdentityClaims{Username: "alice", AccountID: "1011226111"}, nil
}

func (s *stubVerifier) CookieMaxAge(string) (time.Duration, error) {
	return s.maxAge, s.maxAgeErr
}

// stubUserService scripts login and signup outcomes
type stubUserService struct {
	token      string
	loginErr   error
	signupErr  error
	signedUp   []url.Values
	loginCalls int
}

func (s *stubUserService) Login(_ context.Context, _, _ string) (string, error) {
	s.loginCalls++
	return s.token, s.loginErr
}

func (s *stubUserService) Signup(_ context.Context, form url.Values) error {
	s.signedUp = append(s.signedUp, form)
	return s.signupErr
}

func (s *stubUserService) GetUserEmail(context.Context, string, string) (string, error) {
	return "alice@example.com", nil
}

// stubOAuthService scripts the consent allow-list and relay
type stubOAuthService struct {
	validateErr error
	location    string
	relayErr    error
	relayed     int
}

func (s *stubOAuthService) ValidateConsentRequest(string, string) error {
	return s.validateErr
}

func (s *stubOAuthService) RelayAuthCode(context.Context, string, string, string) (string, error) {
	s.relayed++
	return s.location, s.relayErr
}

type AuthHandlerTestSuite struct {
	suite.Suite
	echo     *echo.Echo
	verifier *stubVerifier
	users    *stubUserService
	oauth    *stubOAuthService
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.verifier = &stubVerifier{validToken: "good-token", maxAge: 45 * time.Minute}
	s.users = &stubUserService{token: "good-token"}
	s.oauth = &stubOAuthService{location: "https://relying.example.com/landed?code=abc"}
}

func (s *AuthHandlerTestSuite) newHandler(oauthEnabled bool) *AuthHandler {
	return NewAuthHandler(s.users, s.oauth, s.verifier, oauthEnabled, "Test Bank")
}

func (s *AuthHandlerTestSuite) get(target string, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return s.echo.NewContext(req, rec), rec
}

func (s *AuthHandlerTestSuite) post(target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return s.echo.NewContext(req, rec), rec
}

func tokenCookie(value string) *http.Cookie {
	return &http.Cookie{Name: config.TokenCookieName, Value: value}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	res := rec.Result()
	for _, cookie := range res.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func (s *AuthHandlerTestSuite) TestLoginPage_Anonymous() {
	c, rec := s.get("/login")

	s.NoError(s.newHandler(false).LoginPage(c))

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Test Bank")
}

func (s *AuthHandlerTestSuite) TestLoginPage_AuthenticatedGoesHome() {
	c, rec := s.get("/login", tokenCookie("good-token"))

	s.NoError(s.newHandler(false).LoginPage(c))

	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/home", rec.Header().Get("Location"))
}

func (s *AuthHandlerTestSuite) TestLoginPage_InvalidClientNeverProceeds() {
	s.oauth.validateErr = &services.ConsentValidationError{Message: "Error: Invalid client_id"}
	c, rec := s.get("/login?response_type=code&client_id=impostor&redirect_uri=https%3A%2F%2Frelying.example.com%2Fcallback&state=xyz",
		tokenCookie("good-token"))

	s.NoError(s.newHandler(true).LoginPage(c))

	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/login?msg=Error%3A+Invalid+client_id", rec.Header().Get("Location"))
}

func (s *AuthHandlerTestSuite) TestLoginPage_AuthorizedRequestSkipsToConsent() {
	c, rec := s.get("/login?response_type=code&client_id=registered&redirect_uri=https%3A%2F%2Frelying.example.com%2Fcallback&state=xyz&app_name=Budget",
		tokenCookie("good-token"))

	s.NoError(s.newHandler(true).LoginPage(c))

	s.Equal(http.StatusFound, rec.Code)
	location := rec.Header().Get("Location")
	s.True(strings.HasPrefix(location, "/consent?"), location)
	parsed, err := url.Parse(location)
	s.Require().NoError(err)
	s.Equal("xyz", parsed.Query().Get("state"))
	s.Equal("https://relying.example.com/callback", parsed.Query().Get("redirect_uri"))
	s.Equal("Budget", parsed.Query().Get("app_name"))
}

func (s *AuthHandlerTestSuite) TestLoginPage_OAuthDisabledIgnoresResponseType() {
	c, rec := s.get("/login?response_type=code&client_id=whoever", tokenCookie("good-token"))

	s.NoError(s.newHandler(false).LoginPage(c))

	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/home", rec.Header().Get("Location"))
}

func (s *AuthHandlerTestSuite) TestLogin_SetsCookieSizedToCredentialLifetime() {
	form := url.Values{}
	form.Set("username", "alice")
	form.Set("password", "secret")
	c, rec := s.post("/login", form)

	s.NoError(s.newHandler(false).Login(c))

	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/home", rec.Header().Get("Location"))

	cookie := findCookie(rec, config.TokenCookieName)
	s.Require().NotNil(cookie)
	s.Equal("good-token", cookie.Value)
	s.Equal(int((45 * time.Minute).Seconds()), cookie.MaxAge)
	s.Equal("/", cookie.Path)
}

func (s *AuthHandlerTestSuite) TestLogin_FailureRedirectsWithoutCookie() {
	s.users.token = ""
	s.users.loginErr = &services.AuthFailure{Reason: "Login Failed"}
	c, rec := s.post("/login", url.Values{"username": {"alice"}, "password": {"wrong"}})

	s.NoError(s.newHandler(false).Login(c))

	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/login?msg=Login+Failed", rec.Header().Get("Location"))
	s.Nil(findCookie(rec, config.TokenCookieName))
}

func (s *AuthHandlerTestSuite) TestLogin_ResumesConsentFlow() {
	form := url.Values{"username": {"alice"}, "password": {"secret"}}
	c, rec := s.post("/login?response_type=code&state=xyz&redirect_uri=https%3A%2F%2Frelying.example.com%2Fcallback", form)

	s.NoError(s.newHandler(true).Login(c))

	s.Equal(http.StatusFound, rec.Code)
	s.True(strings.HasPrefix(rec.Header().Get("Location"), "/consent?"))
	s.NotNil(findCookie(rec, config.TokenCookieName))
}

func (s *AuthHandlerTestSuite) TestSignup_ChainsIntoLogin() {
	form := url.Values{}
	form.Set("username", "bob")
	form.Set("password", "hunter2")
	form.Set("firstname", "Bob")
	c, rec := s.post("/signup", form)

	s.NoError(s.newHandler(false).Signup(c))

	s.Require().Len(s.users.signedUp, 1)
	s.Equal("bob", s.users.signedUp[0].Get("username"))
	s.Equal(1, s.users.loginCalls)
	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/home", rec.Header().Get("Location"))
}

func (s *AuthHandlerTestSuite) TestSignup_CreationFailure() {
	s.users.signupErr = errors.New("boom")
	c, rec := s.post("/signup", url.Values{"username": {"bob"}})

	s.NoError(s.newHandler(false).Signup(c))

	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/login?msg=Error%3A+Account+creation+failed", rec.Header().Get("Location"))
	s.Zero(s.users.loginCalls)
}

func (s *AuthHandlerTestSuite) TestLogout_DeletesCookies() {
	c, rec := s.post("/logout", nil)

	s.NoError(s.newHandler(false).Logout(c))

	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/login", rec.Header().Get("Location"))

	token := findCookie(rec, config.TokenCookieName)
	s.Require().NotNil(token)
	s.Equal(-1, token.MaxAge)

	consent := findCookie(rec, config.ConsentCookieName)
	s.Require().NotNil(consent)
	s.Equal(-1, consent.MaxAge)
}

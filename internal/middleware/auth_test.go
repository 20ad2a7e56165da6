package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bank-gateway/internal/config"
	"bank-gateway/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

// fakeVerifier accepts a single known credential value
type fakeVerifier struct {
	validToken string
	decodeErr  error
}

func (f *fakeVerifier) Verify(tokenString string) bool {
	return tokenString != "" && tokenString == f.validToken
}

func (f *fakeVerifier) DecodeUnverified(string) (*models.IdentityClaims, error) {
	if f.decodeErr != nil {
		return nil, f.decodeErr
	}
	return &models.IdentityClaims{
		Username:    "alice",
		DisplayName: "Alice Example",
		AccountID:   "1011226111",
	}, nil
}

func (f *fakeVerifier) CookieMaxAge(string) (time.Duration, error) {
	return 0, nil
}

type AuthMiddlewareTestSuite struct {
	suite.Suite
	echo     *echo.Echo
	verifier *fakeVerifier
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	s.echo = echo.New()
	s.verifier = &fakeVerifier{validToken: "good-token"}
}

// invoke runs the middleware chain around a probe handler that records
// whether it was reached and what the context carried
func (s *AuthMiddlewareTestSuite) invoke(mw echo.MiddlewareFunc, cookie *http.Cookie) (reached bool, ctx echo.Context, rec *httptest.ResponseRecorder, err error) {
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec = httptest.NewRecorder()
	ctx = s.echo.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	err = handler(ctx)
	return reached, ctx, rec, err
}

func (s *AuthMiddlewareTestSuite) TestRequireCredential_ValidCookie() {
	reached, ctx, _, err := s.invoke(
		RequireCredential(s.verifier),
		&http.Cookie{Name: config.TokenCookieName, Value: "good-token"},
	)

	s.NoError(err)
	s.True(reached)
	s.Equal("good-token", ctx.Get(TokenContextKey))
	claims, ok := ctx.Get(ClaimsContextKey).(*models.IdentityClaims)
	s.Require().True(ok)
	s.Equal("alice", claims.Username)
}

func (s *AuthMiddlewareTestSuite) TestRequireCredential_AbsentCookieFailsClosed() {
	reached, _, _, err := s.invoke(RequireCredential(s.verifier), nil)

	s.False(reached)
	var httpErr *echo.HTTPError
	s.Require().ErrorAs(err, &httpErr)
	s.Equal(http.StatusUnauthorized, httpErr.Code)
}

func (s *AuthMiddlewareTestSuite) TestRequireCredential_InvalidCookieFailsClosed() {
	reached, _, _, err := s.invoke(
		RequireCredential(s.verifier),
		&http.Cookie{Name: config.TokenCookieName, Value: "forged-token"},
	)

	s.False(reached)
	var httpErr *echo.HTTPError
	s.Require().ErrorAs(err, &httpErr)
	s.Equal(http.StatusUnauthorized, httpErr.Code)
}

func (s *AuthMiddlewareTestSuite) TestRequireCredential_EmptyCookieFailsClosed() {
	reached, _, _, err := s.invoke(
		RequireCredential(s.verifier),
		&http.Cookie{Name: config.TokenCookieName, Value: ""},
	)

	s.False(reached)
	var httpErr *echo.HTTPError
	s.ErrorAs(err, &httpErr)
}

func (s *AuthMiddlewareTestSuite) TestRequireCredential_UndecodableClaims() {
	s.verifier.decodeErr = errors.New("malformed claims")

	reached, _, _, err := s.invoke(
		RequireCredential(s.verifier),
		&http.Cookie{Name: config.TokenCookieName, Value: "good-token"},
	)

	s.False(reached)
	var httpErr *echo.HTTPError
	s.ErrorAs(err, &httpErr)
}

func (s *AuthMiddlewareTestSuite) TestRedirectUnauthenticated_ValidCookiePassesThrough() {
	reached, ctx, _, err := s.invoke(
		RedirectUnauthenticated(s.verifier, "/login"),
		&http.Cookie{Name: config.TokenCookieName, Value: "good-token"},
	)

	s.NoError(err)
	s.True(reached)
	s.Equal("good-token", ctx.Get(TokenContextKey))
}

func (s *AuthMiddlewareTestSuite) TestRedirectUnauthenticated_AnonymousRedirected() {
	reached, _, rec, err := s.invoke(RedirectUnauthenticated(s.verifier, "/login"), nil)

	s.NoError(err)
	s.False(reached)
	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/login", rec.Header().Get("Location"))
}

func (s *AuthMiddlewareTestSuite) TestRedirectUnauthenticated_InvalidCookieRedirected() {
	reached, _, rec, err := s.invoke(
		RedirectUnauthenticated(s.verifier, "/login"),
		&http.Cookie{Name: config.TokenCookieName, Value: "forged-token"},
	)

	s.NoError(err)
	s.False(reached)
	s.Equal(http.StatusFound, rec.Code)
	s.Equal("/login", rec.Header().Get("Location"))
}

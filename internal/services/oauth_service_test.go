package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bank-gateway/internal/config"

	"github.com/stretchr/testify/suite"
)

type OAuthServiceTestSuite struct {
	suite.Suite
	oauth config.OAuthConfig
}

func TestOAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(OAuthServiceTestSuite))
}

func (s *OAuthServiceTestSuite) SetupTest() {
	s.oauth = config.OAuthConfig{
		RegisteredClientID: "registered-client",
		AllowedRedirectURI: "https://relying.example.com/callback",
	}
}

func (s *OAuthServiceTestSuite) newService() OAuthServiceInterface {
	return NewOAuthService(s.oauth, config.BackendConfig{Timeout: 2 * time.Second})
}

func (s *OAuthServiceTestSuite) TestValidateConsentRequest() {
	svc := s.newService()

	s.NoError(svc.ValidateConsentRequest("registered-client", "https://relying.example.com/callback"))

	err := svc.ValidateConsentRequest("impostor", "https://relying.example.com/callback")
	var consentErr *ConsentValidationError
	s.Require().ErrorAs(err, &consentErr)
	s.Equal("Error: Invalid client_id", consentErr.Message)

	err = svc.ValidateConsentRequest("registered-client", "https://evil.example.com/steal")
	s.Require().ErrorAs(err, &consentErr)
	s.Equal("Error: Invalid redirect_uri", consentErr.Message)
}

func (s *OAuthServiceTestSuite) TestRelayAuthCode_ExtractsLocation() {
	var gotState, gotToken string

	callback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.NoError(r.ParseForm())
		gotState = r.PostFormValue("state")
		gotToken = r.PostFormValue("id_token")
		w.Header().Set("Location", "https://relying.example.com/landed?code=abc123")
		w.WriteHeader(http.StatusFound)
	}))
	defer callback.Close()

	location, err := s.newService().RelayAuthCode(
		context.Background(), "xyzstate", callback.URL, "signed-token")

	s.NoError(err)
	s.Equal("https://relying.example.com/landed?code=abc123", location)
	s.Equal("xyzstate", gotState)
	s.Equal("signed-token", gotToken)
}

func (s *OAuthServiceTestSuite) TestRelayAuthCode_DoesNotFollowRedirect() {
	followed := false

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/next")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/next", func(w http.ResponseWriter, r *http.Request) {
		followed = true
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	location, err := s.newService().RelayAuthCode(
		context.Background(), "st", srv.URL+"/callback", "tok")

	s.NoError(err)
	s.Equal("/next", location)
	s.False(followed)
}

func (s *OAuthServiceTestSuite) TestRelayAuthCode_UnexpectedStatus() {
	callback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer callback.Close()

	_, err := s.newService().RelayAuthCode(context.Background(), "st", callback.URL, "tok")

	var transport *TransportFailure
	s.ErrorAs(err, &transport)
}

func (s *OAuthServiceTestSuite) TestRelayAuthCode_TransportError() {
	_, err := s.newService().RelayAuthCode(
		context.Background(), "st", "http://127.0.0.1:1", "tok")

	var transport *TransportFailure
	s.ErrorAs(err, &transport)
}

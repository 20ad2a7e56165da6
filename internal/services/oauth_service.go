package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bank-gateway/internal/config"
)

// ConsentValidationError rejects a consent request before the handshake
// starts. Message is safe to show to the end user on the login redirect.
type ConsentValidationError struct {
	Message string
}

func (e *ConsentValidationError) Error() string {
	return e.Message
}

// OAuthService runs the consent relay: after the user grants consent, the
// verified credential is posted to the relying application's callback and
// the authorization code comes back as a redirect Location. The state and
// redirect URI are opaque round-trip values, never interpreted beyond the
// allow-list check.
type OAuthService struct {
	oauth config.OAuthConfig
	// relayClient must not follow redirects: the 302 Location IS the result
	relayClient *http.Client
	timeout     time.Duration
}

func NewOAuthService(oauth config.OAuthConfig, backends config.BackendConfig) OAuthServiceInterface {
	return &OAuthService{
		oauth: oauth,
		relayClient: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout: backends.Timeout,
	}
}

// ValidateConsentRequest checks the client id and redirect URI against the
// statically configured allow-list. Rejection prevents open redirects and
// client impersonation before any credential is involved.
func (os *OAuthService) ValidateConsentRequest(clientID, redirectURI string) error {
	if clientID != os.oauth.RegisteredClientID {
		return &ConsentValidationError{Message: "Error: Invalid client_id"}
	}
	if redirectURI != os.oauth.AllowedRedirectURI {
		return &ConsentValidationError{Message: "Error: Invalid redirect_uri"}
	}
	return nil
}

// RelayAuthCode posts the credential to the relying application's callback
// and returns the Location it redirects to. Any unexpected status or
// transport error is surfaced as a generic relay error; internal details
// never reach the end user.
func (os *OAuthService) RelayAuthCode(ctx context.Context, state, redirectURI, token string) (string, error) {
	form := url.Values{}
	form.Set("state", state)
	form.Set("id_token", token)

	callCtx, cancel := context.WithTimeout(ctx, os.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, redirectURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &TransportFailure{Op: "relay auth code", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := os.relayClient.Do(req)
	if err != nil {
		slog.Error("auth code relay failed", "error", err)
		return "", &TransportFailure{Op: "relay auth code", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		slog.Error("unexpected auth callback status", "status", resp.StatusCode)
		return "", &TransportFailure{
			Op:  "relay auth code",
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", &TransportFailure{
			Op:  "relay auth code",
			Err: fmt.Errorf("callback response missing Location header"),
		}
	}

	slog.Info("auth code retrieved")
	return location, nil
}

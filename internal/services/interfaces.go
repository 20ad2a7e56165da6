package services

import (
	"context"
	"net/url"
	"time"

	"bank-gateway/internal/models"
)

// TokenVerifier validates and decodes bearer credentials
type TokenVerifier interface {
	Verify(tokenString string) bool
	DecodeUnverified(tokenString string) (*models.IdentityClaims, error)
	CookieMaxAge(tokenString string) (time.Duration, error)
}

// AggregatorInterface assembles the home view from the backend fan-out
type AggregatorInterface interface {
	HomeView(ctx context.Context, token string, claims *models.IdentityClaims) *models.HomeView
}

// LedgerServiceInterface submits transactions to the ledgerwriter
type LedgerServiceInterface interface {
	Submit(ctx context.Context, tx models.TransactionSubmission, token string) error
}

// ContactsServiceInterface creates saved payees via the contacts service
type ContactsServiceInterface interface {
	AddContact(ctx context.Context, token, username string, contact models.Contact) error
}

// UserServiceInterface fronts the userservice identity authority
type UserServiceInterface interface {
	Login(ctx context.Context, username, password string) (string, error)
	Signup(ctx context.Context, form url.Values) error
	GetUserEmail(ctx context.Context, token, username string) (string, error)
}

// OAuthServiceInterface drives the consent relay handshake
type OAuthServiceInterface interface {
	ValidateConsentRequest(clientID, redirectURI string) error
	RelayAuthCode(ctx context.Context, state, redirectURI, token string) (string, error)
}

// StatementServiceInterface relays statement documents from the history service
type StatementServiceInterface interface {
	FetchPDF(ctx context.Context, accountID, startDate, endDate, token string) ([]byte, string, error)
}

// Mailer delivers statement e-mails; implementations own composition and
// transport
type Mailer interface {
	SendStatement(recipientEmail, firstname, startDate, endDate string, pdf []byte) error
}

// MetricsRecorderInterface records gateway observability signals
type MetricsRecorderInterface interface {
	RecordBackendCall(kind CallKind, outcome string, duration time.Duration)
	RecordSubmission(operation, outcome string)
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bank-gateway/internal/config"
	"bank-gateway/internal/models"
)

// ContactsService creates saved payees on demand from payment and deposit
// forms when the user opts to save a new contact.
type ContactsService struct {
	client  *BackendClient
	uri     string
	timeout time.Duration
}

func NewContactsService(client *BackendClient, backends config.BackendConfig) ContactsServiceInterface {
	return &ContactsService{
		client:  client,
		uri:     backends.ContactsURI,
		timeout: backends.Timeout,
	}
}

// AddContact posts a new contact for the user. A non-201 response surfaces
// the contacts service's reason as a ValidationFailure.
func (cs *ContactsService) AddContact(ctx context.Context, token, username string, contact models.Contact) error {
	target := fmt.Sprintf("%s/%s", cs.uri, username)

	status, body, err := cs.client.PostJSON(ctx, target, token, contact, cs.timeout)
	if err != nil {
		return &TransportFailure{Op: "add contact", Err: err}
	}

	if status != 201 {
		return &ValidationFailure{Reason: string(body)}
	}

	slog.Debug("contact created", "username", username, "label", contact.Label)
	return nil
}

package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"bank-gateway/internal/config"
)

// StatementService relays statement documents between the caller and the
// document-generation backend. Pure passthrough: the gateway never
// interprets the PDF bytes.
type StatementService struct {
	client  *BackendClient
	uri     string
	timeout time.Duration
}

func NewStatementService(client *BackendClient, backends config.BackendConfig) StatementServiceInterface {
	return &StatementService{
		client:  client,
		uri:     backends.StatementURI,
		timeout: backends.Timeout,
	}
}

// FetchPDF forwards the document request with the required date-range
// parameters and returns the raw payload with its content type.
func (ss *StatementService) FetchPDF(ctx context.Context, accountID, startDate, endDate, token string) ([]byte, string, error) {
	target := fmt.Sprintf("%s/%s/pdf", ss.uri, accountID)

	params := url.Values{}
	params.Set("startDate", startDate)
	params.Set("endDate", endDate)

	status, body, contentType, err := ss.client.GetRaw(ctx, target, token, params, ss.timeout)
	if err != nil {
		return nil, "", &TransportFailure{Op: "fetch statement", Err: err}
	}

	if status < 200 || status > 299 {
		return nil, "", &TransportFailure{
			Op:  "fetch statement",
			Err: fmt.Errorf("unexpected status %d", status),
		}
	}

	if contentType == "" {
		contentType = "application/pdf"
	}

	return body, contentType, nil
}

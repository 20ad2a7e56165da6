package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CallKind identifies one of the closed set of aggregated backend calls.
type CallKind string

const (
	CallBalance         CallKind = "balance"
	CallTransactionList CallKind = "transaction_list"
	CallContacts        CallKind = "contacts"
	CallStatementList   CallKind = "statement_list"
)

// BackendCall describes one outbound request: target, bearer credential and
// timeout. Immutable once constructed and owned by the aggregation that
// created it; descriptors are never shared across requests.
type BackendCall struct {
	Kind    CallKind
	URL     string
	Token   string
	Timeout time.Duration
}

// BackendClient wraps the shared outbound HTTP connection pool. Safe for
// concurrent use; every call carries a mandatory timeout.
type BackendClient struct {
	httpClient *http.Client
	metrics    MetricsRecorderInterface
}

func NewBackendClient(metrics MetricsRecorderInterface) *BackendClient {
	return &BackendClient{
		// Timeouts are applied per call via context deadlines
		httpClient: &http.Client{},
		metrics:    metrics,
	}
}

// Fetch performs one aggregated GET. On any transport error, timeout, or
// non-2xx status it returns nil: a failing backend degrades its own section
// of the view and must never abort sibling calls.
func (bc *BackendClient) Fetch(ctx context.Context, call BackendCall) json.RawMessage {
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, call.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, call.URL, nil)
	if err != nil {
		bc.recordFailure(call, start, err)
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+call.Token)

	resp, err := bc.httpClient.Do(req)
	if err != nil {
		bc.recordFailure(call, start, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bc.recordFailure(call, start, fmt.Errorf("unexpected status %d", resp.StatusCode))
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		bc.recordFailure(call, start, err)
		return nil
	}

	bc.metrics.RecordBackendCall(call.Kind, OutcomeSuccess, time.Since(start))
	return body
}

func (bc *BackendClient) recordFailure(call BackendCall, start time.Time, err error) {
	bc.metrics.RecordBackendCall(call.Kind, OutcomeFailure, time.Since(start))
	slog.Warn("backend call failed",
		"call", string(call.Kind),
		"url", call.URL,
		"error", err,
	)
}

// PostJSON posts a JSON payload with the bearer credential attached and
// returns the response status and body.
func (bc *BackendClient) PostJSON(ctx context.Context, target, token string, payload interface{}, timeout time.Duration) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	return bc.do(req)
}

// PostForm posts form-encoded values without a credential (signup, consent
// callback style endpoints).
func (bc *BackendClient) PostForm(ctx context.Context, target string, form url.Values, timeout time.Duration) (int, []byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return bc.do(req)
}

// GetJSON performs an authenticated GET and decodes the 2xx response into out.
func (bc *BackendClient) GetJSON(ctx context.Context, target, token string, params url.Values, timeout time.Duration, out interface{}) error {
	status, body, _, err := bc.GetRaw(ctx, target, token, params, timeout)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("unexpected status %d: %s", status, string(body))
	}
	return json.Unmarshal(body, out)
}

// GetRaw performs an authenticated GET and returns status, body and content
// type without interpreting the payload.
func (bc *BackendClient) GetRaw(ctx context.Context, target, token string, params url.Values, timeout time.Duration) (int, []byte, string, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if len(params) > 0 {
		target = target + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, "", err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := bc.httpClient.Do(req)
	if err != nil {
		return 0, nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, "", err
	}

	return resp.StatusCode, body, resp.Header.Get("Content-Type"), nil
}

func (bc *BackendClient) do(req *http.Request) (int, []byte, error) {
	resp, err := bc.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode, body, nil
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"bank-gateway/internal/config"
	"bank-gateway/internal/models"

	"golang.org/x/sync/errgroup"
)

// maxFanout caps the per-request worker pool. The home page issues four
// calls; the cap only matters if the call set ever grows.
const maxFanout = 4

// Aggregator fans the home-page backend calls out in parallel and joins
// whichever complete. Each inbound request gets its own pool and its own
// request-local result; the only shared state is the client's connection
// pool.
type Aggregator struct {
	client   *BackendClient
	backends config.BackendConfig
}

func NewAggregator(client *BackendClient, backends config.BackendConfig) AggregatorInterface {
	return &Aggregator{client: client, backends: backends}
}

// Aggregate runs every call to completion and returns the raw results keyed
// by call kind. Failed calls are simply absent: partial results are the
// designed failure mode, and a slow sibling is never cancelled early, so
// total latency is bounded by the slowest single call.
func (a *Aggregator) Aggregate(ctx context.Context, calls []BackendCall) map[CallKind]json.RawMessage {
	results := make(map[CallKind]json.RawMessage, len(calls))

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(maxFanout)

	for _, call := range calls {
		g.Go(func() error {
			// Fetch never returns an error: one failing backend must
			// not abort its siblings
			if body := a.client.Fetch(ctx, call); body != nil {
				mu.Lock()
				results[call.Kind] = body
				mu.Unlock()
			}
			return nil
		})
	}

	// Join point: blocks this request until every call completed or failed
	_ = g.Wait()

	return results
}

// HomeView assembles the aggregate page model for the authenticated user,
// with declared defaults for every section a failed call left empty.
func (a *Aggregator) HomeView(ctx context.Context, token string, claims *models.IdentityClaims) *models.HomeView {
	calls := []BackendCall{
		{
			Kind:    CallBalance,
			URL:     fmt.Sprintf("%s/%s", a.backends.BalancesURI, claims.AccountID),
			Token:   token,
			Timeout: a.backends.Timeout,
		},
		{
			Kind:    CallTransactionList,
			URL:     fmt.Sprintf("%s/%s", a.backends.HistoryURI, claims.AccountID),
			Token:   token,
			Timeout: a.backends.Timeout,
		},
		{
			Kind:    CallContacts,
			URL:     fmt.Sprintf("%s/%s", a.backends.ContactsURI, claims.Username),
			Token:   token,
			Timeout: a.backends.Timeout,
		},
		{
			Kind:    CallStatementList,
			URL:     fmt.Sprintf("%s/%s/pdf", a.backends.StatementURI, claims.AccountID),
			Token:   token,
			Timeout: a.backends.Timeout,
		},
	}

	results := a.Aggregate(ctx, calls)

	view := &models.HomeView{
		AccountID:   claims.AccountID,
		DisplayName: claims.DisplayName,
		Username:    claims.Username,
		Contacts:    []models.Contact{},
	}

	for kind, body := range results {
		switch kind {
		case CallBalance:
			var balance models.BalanceResponse
			if err := json.Unmarshal(body, &balance); err != nil {
				slog.Warn("failed to decode balance response", "error", err)
				continue
			}
			view.Balance = &balance.Balance
		case CallTransactionList:
			var history []models.TransactionRecord
			if err := json.Unmarshal(body, &history); err != nil {
				slog.Warn("failed to decode transaction history", "error", err)
				continue
			}
			view.History = history
		case CallContacts:
			var contacts []models.Contact
			if err := json.Unmarshal(body, &contacts); err != nil {
				slog.Warn("failed to decode contacts", "error", err)
				continue
			}
			view.Contacts = contacts
		case CallStatementList:
			view.StatementList = body
		}
	}

	PopulateContactLabels(claims.AccountID, view.History, view.Contacts)

	return view
}

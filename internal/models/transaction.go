package models

import "encoding/json"

// TransactionSubmission is the ledgerwriter write payload. Amount is always
// integer minor currency units; conversion from user decimal input happens
// once, at the boundary. UUID is the caller-generated idempotency key and
// must be reused unchanged on retry.
type TransactionSubmission struct {
	FromAccountNum string `json:"fromAccountNum"`
	FromRoutingNum string `json:"fromRoutingNum"`
	ToAccountNum   string `json:"toAccountNum"`
	ToRoutingNum   string `json:"toRoutingNum"`
	Amount         int64  `json:"amount"`
	UUID           string `json:"uuid"`
}

// TransactionRecord is one entry of the transaction-history read model.
// AccountLabel is attached by the contact-label enricher after aggregation;
// the key is always serialized, null when no saved contact matches.
type TransactionRecord struct {
	FromAccountNum string  `json:"fromAccountNum"`
	FromRoutingNum string  `json:"fromRoutingNum,omitempty"`
	ToAccountNum   string  `json:"toAccountNum"`
	ToRoutingNum   string  `json:"toRoutingNum,omitempty"`
	Amount         int64   `json:"amount"`
	Timestamp      string  `json:"timestamp"`
	AccountLabel   *string `json:"accountLabel"`
}

// Contact is a saved payee as stored by the contacts service.
type Contact struct {
	Label      string `json:"label"`
	AccountNum string `json:"account_num"`
	RoutingNum string `json:"routing_num"`
	IsExternal bool   `json:"is_external"`
}

// BalanceResponse is the balancereader read model.
type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

// HomeView is the aggregate assembled for the home page from whichever
// backend calls succeeded. Zero values are the declared defaults: contacts
// render as an empty list, balance and history as absent sections.
type HomeView struct {
	AccountID     string              `json:"account_id"`
	DisplayName   string              `json:"name"`
	Username      string              `json:"username"`
	Balance       *int64              `json:"balance"`
	History       []TransactionRecord `json:"history"`
	Contacts      []Contact           `json:"contacts"`
	StatementList json.RawMessage     `json:"statement_list,omitempty"`
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bank-gateway/internal/config"
	"bank-gateway/internal/models"

	"github.com/shopspring/decimal"
)

// LedgerService posts transactions to the ledgerwriter. Business-rule
// validation (insufficient funds, bad routing numbers, idempotency dedup)
// belongs to the ledger; the gateway only performs boundary checks and
// surfaces the ledger's rejection reason verbatim.
type LedgerService struct {
	client      *BackendClient
	metrics     MetricsRecorderInterface
	uri         string
	timeout     time.Duration
	settleDelay time.Duration
}

func NewLedgerService(client *BackendClient, metrics MetricsRecorderInterface, backends config.BackendConfig) LedgerServiceInterface {
	return &LedgerService{
		client:      client,
		metrics:     metrics,
		uri:         backends.TransactionsURI,
		timeout:     backends.Timeout,
		settleDelay: backends.SettleDelay,
	}
}

// ParseAmount converts user decimal input into integer minor currency units,
// once, at the boundary. "12.34" becomes 1234; fractions of a cent are
// truncated. Non-numeric or negative input fails as a ValidationFailure
// before any network call is made.
func ParseAmount(input string) (int64, error) {
	amount, err := decimal.NewFromString(input)
	if err != nil {
		return 0, &ValidationFailure{
			Reason: fmt.Sprintf("%s is not a valid number", input),
		}
	}

	if amount.IsNegative() {
		return 0, &ValidationFailure{
			Reason: fmt.Sprintf("%s is not a valid amount", input),
		}
	}

	return amount.Mul(decimal.NewFromInt(100)).IntPart(), nil
}

// Submit posts the transaction with the bearer credential attached. A non-201
// response becomes a ValidationFailure carrying the ledger's response body as
// the user-facing reason. On success, Submit deliberately blocks for the
// settle delay before returning: balance and history read replicas are
// updated asynchronously from the ledger write, and redirecting immediately
// would render stale data. The wait is a fixed bound, not a consistency
// guarantee.
func (ls *LedgerService) Submit(ctx context.Context, tx models.TransactionSubmission, token string) error {
	status, body, err := ls.client.PostJSON(ctx, ls.uri, token, tx, ls.timeout)
	if err != nil {
		ls.metrics.RecordSubmission("submit", OutcomeFailure)
		return &TransportFailure{Op: "submit transaction", Err: err}
	}

	if status != 201 {
		ls.metrics.RecordSubmission("submit", OutcomeFailure)
		slog.Error("ledger rejected transaction",
			"status", status,
			"uuid", tx.UUID,
		)
		return &ValidationFailure{Reason: string(body)}
	}

	ls.metrics.RecordSubmission("submit", OutcomeSuccess)
	slog.Info("transaction submitted", "uuid", tx.UUID)

	// Settle delay: allow the write to propagate to balancereader and
	// transaction-history before the caller re-reads state
	time.Sleep(ls.settleDelay)

	return nil
}

package brcodepayment

import (
	"context"
	"strings"
	"time"

	"github.com/fennelpay/ledger-go/internal/rest"
	"github.com/fennelpay/ledger-go/pkg/ledger"
)

// Log records one state change of a payment. Logs are created by the server
// only; the client can just read them.
type Log struct {
	// ID is the unique identifier of the log entry.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Type of the state change: created, processing, success or failed.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Errors lists what went wrong when Type is failed.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Payment is a snapshot of the payment at the time of the event.
	Payment *BrcodePayment `json:"payment,omitempty" yaml:"payment,omitempty"`

	// Created is the event timestamp.
	Created *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
}

var logSchema = rest.Schema{
	Name:     "brcode-payment-log",
	Endpoint: "brcode-payments/logs",
	Key:      "logs",
}

// GetLog fetches a single payment log by id.
func GetLog(ctx context.Context, id string, credential *ledger.Credential) (*Log, error) {
	return rest.GetID[Log](ctx, logSchema, id, credential)
}

// QueryLogs returns a lazy stream over payment logs matching the query. Use
// WithPaymentIDs to restrict the stream to specific payments.
func QueryLogs(ctx context.Context, query *ledger.Query, credential *ledger.Credential) *ledger.Stream[Log] {
	return rest.GetStream[Log](ctx, logSchema, query, credential)
}

// PageLogs fetches one page of payment logs.
func PageLogs(ctx context.Context, query *ledger.Query, credential *ledger.Credential) (*ledger.Page[Log], error) {
	return rest.GetPage[Log](ctx, logSchema, query, credential)
}

// WithPaymentIDs filters a log query by the payments that produced the logs.
func WithPaymentIDs(query *ledger.Query, ids ...string) *ledger.Query {
	return query.WithFilter("paymentIds", strings.Join(ids, ","))
}

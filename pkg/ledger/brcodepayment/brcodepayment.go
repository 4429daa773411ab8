// Package brcodepayment pays BR-code (Pix) invoices from the workspace
// balance.
package brcodepayment

import (
	"context"
	"time"

	"github.com/fennelpay/ledger-go/internal/rest"
	"github.com/fennelpay/ledger-go/pkg/ledger"
)

// BrcodePayment is one BR-code payment order.
type BrcodePayment struct {
	// Brcode is the BR code to be paid. Caller-set.
	Brcode string `json:"brcode,omitempty" yaml:"brcode,omitempty"`

	// TaxID of the beneficiary, for verification. Caller-set.
	TaxID string `json:"taxId,omitempty" yaml:"tax_id,omitempty"`

	// Description shown on the account statement. Caller-set.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Amount overrides the BR code's embedded amount, in cents. Caller-set.
	Amount int `json:"amount,omitempty" yaml:"amount,omitempty"`

	// Scheduled delays execution to the given instant. Caller-set.
	Scheduled *time.Time `json:"scheduled,omitempty" yaml:"scheduled,omitempty"`

	// Tags label the payment for later filtering. Caller-set.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// ID is the unique identifier assigned by the server on creation.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Name of the beneficiary, resolved from the BR code.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Status of the payment: created, processing, success or failed.
	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	// Type of the BR code: static or dynamic.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Fee charged for the payment, in cents.
	Fee int `json:"fee,omitempty" yaml:"fee,omitempty"`

	// TransactionIDs ledger entries chained to this payment.
	TransactionIDs []string `json:"transactionIds,omitempty" yaml:"transaction_ids,omitempty"`

	// Created and Updated are server-side timestamps.
	Created *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Updated *time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`
}

var schema = rest.Schema{
	Name:     "brcode-payment",
	Endpoint: "brcode-payments",
	Key:      "payments",
	ReadOnly: []string{"id", "name", "status", "type", "fee", "transactionIds", "created", "updated"},
}

// Create sends a batch of payments in one atomic request.
func Create(ctx context.Context, payments []BrcodePayment, credential *ledger.Credential) ([]BrcodePayment, error) {
	return rest.CreateMulti(ctx, schema, payments, credential)
}

// Get fetches a single payment by id.
func Get(ctx context.Context, id string, credential *ledger.Credential) (*BrcodePayment, error) {
	return rest.GetID[BrcodePayment](ctx, schema, id, credential)
}

// Query returns a lazy stream over all payments matching the query.
func Query(ctx context.Context, query *ledger.Query, credential *ledger.Credential) *ledger.Stream[BrcodePayment] {
	return rest.GetStream[BrcodePayment](ctx, schema, query, credential)
}

// Page fetches one page of payments plus the cursor for the next one.
func Page(ctx context.Context, query *ledger.Query, credential *ledger.Credential) (*ledger.Page[BrcodePayment], error) {
	return rest.GetPage[BrcodePayment](ctx, schema, query, credential)
}

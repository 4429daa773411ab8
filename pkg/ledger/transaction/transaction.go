// Package transaction moves balance between ledger accounts.
//
// A transaction created here debits the workspace and credits the receiver
// atomically. The server assigns id, fee, balance and created; the client
// never sends or mutates them.
package transaction

import (
	"context"
	"time"

	"github.com/fennelpay/ledger-go/internal/rest"
	"github.com/fennelpay/ledger-go/pkg/ledger"
)

// Transaction is one ledger entry. Caller-set fields are sent on create;
// the remaining fields are assigned by the server and returned populated.
type Transaction struct {
	// Amount to transfer, in cents. Caller-set.
	Amount int `json:"amount,omitempty" yaml:"amount,omitempty"`

	// Description shown on both account statements. Caller-set.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// ExternalID deduplicates creation: reusing one is rejected. Caller-set.
	ExternalID string `json:"externalId,omitempty" yaml:"external_id,omitempty"`

	// ReceiverID is the account credited by the transaction. Caller-set.
	ReceiverID string `json:"receiverId,omitempty" yaml:"receiver_id,omitempty"`

	// Tags label the transaction for later filtering. Caller-set.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// ID is the unique identifier assigned by the server on creation.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// SenderID is the account debited, resolved by the server.
	SenderID string `json:"senderId,omitempty" yaml:"sender_id,omitempty"`

	// Fee charged for the transaction, in cents.
	Fee int `json:"fee,omitempty" yaml:"fee,omitempty"`

	// Balance is the sender balance after the transaction, in cents.
	Balance *int64 `json:"balance,omitempty" yaml:"balance,omitempty"`

	// Source is the ledger entry that caused the transaction.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Created is the server-side creation timestamp.
	Created *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
}

var schema = rest.Schema{
	Name:     "transaction",
	ReadOnly: []string{"id", "senderId", "fee", "balance", "source", "created"},
}

// Create sends a batch of transactions in one atomic request. Either every
// transaction is created or none is; a rejected batch surfaces as a
// *ledger.ValidationError naming the invalid entries by position.
func Create(ctx context.Context, transactions []Transaction, credential *ledger.Credential) ([]Transaction, error) {
	return rest.CreateMulti(ctx, schema, transactions, credential)
}

// Get fetches a single transaction by id.
func Get(ctx context.Context, id string, credential *ledger.Credential) (*Transaction, error) {
	return rest.GetID[Transaction](ctx, schema, id, credential)
}

// Query returns a lazy stream over all transactions matching the query, in
// server order. The query's Limit bounds the total items yielded.
func Query(ctx context.Context, query *ledger.Query, credential *ledger.Credential) *ledger.Stream[Transaction] {
	return rest.GetStream[Transaction](ctx, schema, query, credential)
}

// Page fetches one page of transactions plus the cursor for the next one.
func Page(ctx context.Context, query *ledger.Query, credential *ledger.Credential) (*ledger.Page[Transaction], error) {
	return rest.GetPage[Transaction](ctx, schema, query, credential)
}

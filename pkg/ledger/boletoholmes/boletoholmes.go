// Package boletoholmes investigates boletos registered elsewhere: each
// holmes checks the current status of one boleto with the central registry.
package boletoholmes

import (
	"context"
	"strings"
	"time"

	"github.com/fennelpay/ledger-go/internal/rest"
	"github.com/fennelpay/ledger-go/pkg/ledger"
)

// BoletoHolmes is one boleto investigation.
type BoletoHolmes struct {
	// BoletoID is the boleto under investigation. Caller-set.
	BoletoID string `json:"boletoId,omitempty" yaml:"boleto_id,omitempty"`

	// Tags label the investigation for later filtering. Caller-set.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// ID is the unique identifier assigned by the server on creation.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Status of the investigation: solving or solved.
	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	// Result of a solved investigation, e.g. paid or registered.
	Result string `json:"result,omitempty" yaml:"result,omitempty"`

	// Created and Updated are server-side timestamps.
	Created *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
	Updated *time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`
}

var schema = rest.Schema{
	Name:     "boleto-holmes",
	Endpoint: "boleto-holmes",
	Key:      "holmes",
	ReadOnly: []string{"id", "status", "result", "created", "updated"},
}

// Create sends a batch of investigations in one atomic request.
func Create(ctx context.Context, holmes []BoletoHolmes, credential *ledger.Credential) ([]BoletoHolmes, error) {
	return rest.CreateMulti(ctx, schema, holmes, credential)
}

// Get fetches a single investigation by id.
func Get(ctx context.Context, id string, credential *ledger.Credential) (*BoletoHolmes, error) {
	return rest.GetID[BoletoHolmes](ctx, schema, id, credential)
}

// Query returns a lazy stream over investigations matching the query.
func Query(ctx context.Context, query *ledger.Query, credential *ledger.Credential) *ledger.Stream[BoletoHolmes] {
	return rest.GetStream[BoletoHolmes](ctx, schema, query, credential)
}

// Page fetches one page of investigations plus the next cursor.
func Page(ctx context.Context, query *ledger.Query, credential *ledger.Credential) (*ledger.Page[BoletoHolmes], error) {
	return rest.GetPage[BoletoHolmes](ctx, schema, query, credential)
}

// Log records one state change of an investigation. Server-created only.
type Log struct {
	// ID is the unique identifier of the log entry.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Type of the state change: solving or solved.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Holmes is a snapshot of the investigation at the time of the event.
	Holmes *BoletoHolmes `json:"holmes,omitempty" yaml:"holmes,omitempty"`

	// Created is the event timestamp.
	Created *time.Time `json:"created,omitempty" yaml:"created,omitempty"`
}

var logSchema = rest.Schema{
	Name:     "boleto-holmes-log",
	Endpoint: "boleto-holmes/logs",
	Key:      "logs",
}

// GetLog fetches a single investigation log by id.
func GetLog(ctx context.Context, id string, credential *ledger.Credential) (*Log, error) {
	return rest.GetID[Log](ctx, logSchema, id, credential)
}

// QueryLogs returns a lazy stream over investigation logs.
func QueryLogs(ctx context.Context, query *ledger.Query, credential *ledger.Credential) *ledger.Stream[Log] {
	return rest.GetStream[Log](ctx, logSchema, query, credential)
}

// PageLogs fetches one page of investigation logs.
func PageLogs(ctx context.Context, query *ledger.Query, credential *ledger.Credential) (*ledger.Page[Log], error) {
	return rest.GetPage[Log](ctx, logSchema, query, credential)
}

// WithHolmesIDs filters a log query by the investigations that produced the
// logs.
func WithHolmesIDs(query *ledger.Query, ids ...string) *ledger.Query {
	return query.WithFilter("holmesIds", strings.Join(ids, ","))
}

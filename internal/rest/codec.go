package rest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fennelpay/ledger-go/pkg/ledger"
)

// Schema is the resource descriptor the generic transport layer works with.
// Each resource module declares one and reuses it across all calls; the
// typed half of the descriptor is the Go type parameter on the entry points.
type Schema struct {
	// Name is the singular resource name, e.g. "transaction".
	Name string

	// Endpoint is the URL segment. Defaults to Name + "s".
	Endpoint string

	// Key is the JSON envelope key. Defaults to the endpoint.
	Key string

	// ReadOnly lists server-assigned JSON fields, stripped on encode so they
	// are never sent in a create request.
	ReadOnly []string
}

// endpoint returns the URL segment for the resource.
func (s Schema) endpoint() string {
	if s.Endpoint != "" {
		return s.Endpoint
	}

	return s.Name + "s"
}

// key returns the JSON envelope key for the resource.
func (s Schema) key() string {
	if s.Key != "" {
		return s.Key
	}

	return s.endpoint()
}

// nullLiteral is the JSON null token, compared byte-wise when stripping
// unset fields.
var nullLiteral = []byte("null")

// cleanEntity converts one entity into a JSON object holding only the fields
// the caller set: null values and server-only fields are removed.
func cleanEntity[T any](schema Schema, entity T) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", schema.Name, err)
	}

	var fields map[string]json.RawMessage

	err = json.Unmarshal(data, &fields)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", schema.Name, err)
	}

	for name, value := range fields {
		if bytes.Equal(value, nullLiteral) {
			delete(fields, name)
		}
	}

	for _, name := range schema.ReadOnly {
		delete(fields, name)
	}

	return fields, nil
}

// encodeEntities builds the batch create envelope
// { "<key>": [ {..caller-set fields..}, ... ] }.
func encodeEntities[T any](schema Schema, entities []T) (json.RawMessage, error) {
	cleaned := make([]map[string]json.RawMessage, 0, len(entities))

	for _, entity := range entities {
		fields, err := cleanEntity(schema, entity)
		if err != nil {
			return nil, err
		}

		cleaned = append(cleaned, fields)
	}

	envelope := map[string]interface{}{schema.key(): cleaned}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", schema.Name, err)
	}

	return data, nil
}

// decodeMany unwraps the envelope and decodes the array under the resource
// key. Unknown fields are dropped; a bad timestamp or shape is a
// *ledger.MalformedResponseError.
func decodeMany[T any](schema Schema, body []byte) ([]T, error) {
	var envelope map[string]json.RawMessage

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, &ledger.MalformedResponseError{Reason: "invalid JSON envelope", Err: err}
	}

	raw, ok := envelope[schema.key()]
	if !ok {
		return nil, &ledger.MalformedResponseError{
			Reason: fmt.Sprintf("missing %q key in response", schema.key()),
		}
	}

	var items []T

	err = json.Unmarshal(raw, &items)
	if err != nil {
		return nil, &ledger.MalformedResponseError{
			Reason: fmt.Sprintf("decoding %s list", schema.Name),
			Err:    err,
		}
	}

	return items, nil
}

// decodeOne unwraps the envelope and decodes the single object under the
// resource key.
func decodeOne[T any](schema Schema, body []byte) (*T, error) {
	var envelope map[string]json.RawMessage

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, &ledger.MalformedResponseError{Reason: "invalid JSON envelope", Err: err}
	}

	raw, ok := envelope[schema.key()]
	if !ok {
		return nil, &ledger.MalformedResponseError{
			Reason: fmt.Sprintf("missing %q key in response", schema.key()),
		}
	}

	var item T

	err = json.Unmarshal(raw, &item)
	if err != nil {
		return nil, &ledger.MalformedResponseError{
			Reason: fmt.Sprintf("decoding %s", schema.Name),
			Err:    err,
		}
	}

	return &item, nil
}

// decodePage decodes one page: the array under the resource key plus the
// continuation cursor (null when exhausted).
func decodePage[T any](schema Schema, body []byte) (*ledger.Page[T], error) {
	items, err := decodeMany[T](schema, body)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Cursor *string `json:"cursor"`
	}

	err = json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, &ledger.MalformedResponseError{Reason: "decoding cursor", Err: err}
	}

	page := &ledger.Page[T]{Items: items}
	if envelope.Cursor != nil {
		page.Cursor = *envelope.Cursor
	}

	return page, nil
}

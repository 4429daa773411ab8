package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fennelpay/ledger-go/internal/auth"
	"github.com/fennelpay/ledger-go/pkg/ledger"
)

// envelopeKeys maps an endpoint to the JSON key its resources travel under.
var envelopeKeys = map[string]string{
	"transactions":    "transactions",
	"brcode-payments": "payments",
	"boleto-holmes":   "holmes",
}

// fakeLedger is an in-memory stand-in for the ledger API. It verifies that
// every request carries the signature headers, assigns ids on create, and
// pages listings with opaque offset cursors.
type fakeLedger struct {
	mu     sync.Mutex
	nextID int
	stores map[string][]map[string]interface{}

	// pageSize caps how many items one listing response returns.
	pageSize int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		stores:   make(map[string][]map[string]interface{}),
		pageSize: 2,
	}
}

func (f *fakeLedger) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if request.Header.Get(auth.HeaderAccessID) == "" ||
		request.Header.Get(auth.HeaderTime) == "" ||
		request.Header.Get(auth.HeaderSignature) == "" {
		writeErrors(writer, 401, "unauthorized", "missing signature headers")

		return
	}

	endpoint, id := splitPath(request.URL.Path)

	key, ok := envelopeKeys[endpoint]
	if !ok {
		writeErrors(writer, 404, "resourceNotFound", "unknown endpoint "+endpoint)

		return
	}

	switch {
	case request.Method == http.MethodPost && id == "":
		f.create(writer, request, endpoint, key)
	case request.Method == http.MethodGet && id != "":
		f.getByID(writer, endpoint, key, id)
	case request.Method == http.MethodGet:
		f.list(writer, request, endpoint, key)
	default:
		writeErrors(writer, 405, "methodNotAllowed", request.Method)
	}
}

func (f *fakeLedger) create(writer http.ResponseWriter, request *http.Request, endpoint, key string) {
	var envelope map[string][]map[string]interface{}

	err := json.NewDecoder(request.Body).Decode(&envelope)
	if err != nil {
		writeErrors(writer, 400, "invalidJson", err.Error())

		return
	}

	entities := envelope[key]

	// The batch is atomic: a single invalid entry rejects all of it.
	for i, entity := range entities {
		if amount, ok := entity["amount"].(float64); ok && amount <= 0 {
			writeIndexedError(writer, i, "invalidAmount", "amount must be positive")

			return
		}
	}

	f.mu.Lock()
	for _, entity := range entities {
		f.nextID++
		entity["id"] = fmt.Sprintf("%s-%d", strings.TrimSuffix(key, "s"), f.nextID)
		entity["created"] = "2024-03-01T12:00:00Z"
		f.stores[endpoint] = append(f.stores[endpoint], entity)
	}
	f.mu.Unlock()

	writeJSON(writer, 200, map[string]interface{}{key: entities})
}

func (f *fakeLedger) getByID(writer http.ResponseWriter, endpoint, key, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, entity := range f.stores[endpoint] {
		if entity["id"] == id {
			writeJSON(writer, 200, map[string]interface{}{key: entity})

			return
		}
	}

	writeErrors(writer, 404, "resourceNotFound", "no "+key+" with id "+id)
}

func (f *fakeLedger) list(writer http.ResponseWriter, request *http.Request, endpoint, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	offset := 0
	if cursor := request.URL.Query().Get("cursor"); cursor != "" {
		offset, _ = strconv.Atoi(cursor)
	}

	limit := f.pageSize
	if requested := request.URL.Query().Get("limit"); requested != "" {
		if parsed, err := strconv.Atoi(requested); err == nil && parsed < limit {
			limit = parsed
		}
	}

	all := f.stores[endpoint]

	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	var cursor interface{}
	if end < len(all) {
		cursor = strconv.Itoa(end)
	}

	items := all[offset:end]
	if items == nil {
		items = []map[string]interface{}{}
	}

	writeJSON(writer, 200, map[string]interface{}{key: items, "cursor": cursor})
}

func splitPath(path string) (endpoint, id string) {
	trimmed := strings.Trim(path, "/")
	if _, ok := envelopeKeys[trimmed]; ok {
		return trimmed, ""
	}

	if idx := strings.LastIndex(trimmed, "/"); idx > 0 {
		return trimmed[:idx], trimmed[idx+1:]
	}

	return trimmed, ""
}

func writeJSON(writer http.ResponseWriter, status int, body interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

func writeErrors(writer http.ResponseWriter, status int, code, message string) {
	writeJSON(writer, status, map[string]interface{}{
		"errors": []map[string]interface{}{{"code": code, "message": message}},
	})
}

func writeIndexedError(writer http.ResponseWriter, index int, code, message string) {
	writeJSON(writer, 400, map[string]interface{}{
		"errors": []map[string]interface{}{{"code": code, "message": message, "index": index}},
	})
}

// startFakeLedger runs the fake API and returns a credential pointing at it.
func startFakeLedger(t *testing.T) (*httptest.Server, *ledger.Credential) {
	t.Helper()

	server := httptest.NewServer(newFakeLedger())
	t.Cleanup(server.Close)

	pemKey, err := auth.GeneratePrivateKeyPEM()
	require.NoError(t, err)

	cred := &ledger.Credential{
		AccessID:    "integration-test",
		PrivateKey:  pemKey,
		Environment: ledger.EnvironmentSandbox,
		APIEndpoint: server.URL,
	}
	require.NoError(t, cred.Validate())

	return server, cred
}

// Package rest exposes the four generic transport entry points every
// resource module delegates to: CreateMulti, GetID, GetPage and GetStream.
// A resource module contributes only its Schema and a typed struct; this
// layer signs, sends, decodes and paginates.
package rest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fennelpay/ledger-go/internal/constants"
	"github.com/fennelpay/ledger-go/internal/http"
	"github.com/fennelpay/ledger-go/pkg/ledger"
)

// clientKey identifies a memoized transport client. Credentials and settings
// are immutable once installed, so pointer identity is a stable key.
type clientKey struct {
	credential *ledger.Credential
	settings   *ledger.Settings
}

var (
	clientsMu sync.Mutex
	clients   = make(map[clientKey]*http.Client)

	cachesMu sync.Mutex
	caches   = make(map[*ledger.CacheConfig]ledger.Cache)
)

// clientFor resolves the credential and returns a transport client for it.
func clientFor(credential *ledger.Credential) (*http.Client, *ledger.Credential, error) {
	resolved, err := ledger.ResolveCredential(credential)
	if err != nil {
		return nil, nil, err
	}

	settings := ledger.Default()
	key := clientKey{credential: resolved, settings: settings}

	clientsMu.Lock()
	defer clientsMu.Unlock()

	if client, ok := clients[key]; ok {
		return client, resolved, nil
	}

	client, err := http.NewClientForCredential(resolved, settings)
	if err != nil {
		return nil, nil, err
	}

	clients[key] = client

	return client, resolved, nil
}

// cacheFor returns the configured get-by-id cache, or nil when disabled.
func cacheFor(settings *ledger.Settings) ledger.Cache {
	config := settings.Cache
	if config == nil {
		return nil
	}

	cachesMu.Lock()
	defer cachesMu.Unlock()

	if cache, ok := caches[config]; ok {
		return cache
	}

	cache, err := ledger.NewCacheFromConfig(config)
	if err != nil {
		// A broken cache backend must not break reads; fall through uncached.
		return nil
	}

	caches[config] = cache

	return cache
}

// CreateMulti serializes the entities as a batch under the schema's envelope
// key and sends one POST. On success every entity comes back with its
// server-assigned fields populated. A rejected batch has no effect and
// surfaces as a *ledger.ValidationError naming the offending positions.
func CreateMulti[T any](ctx context.Context, schema Schema, entities []T, credential *ledger.Credential) ([]T, error) {
	client, _, err := clientFor(credential)
	if err != nil {
		return nil, err
	}

	body, err := encodeEntities(schema, entities)
	if err != nil {
		return nil, err
	}

	resp, err := client.Post(ctx, "/"+schema.endpoint(), body)
	if err != nil {
		return nil, asValidationError(err)
	}

	return decodeMany[T](schema, resp.Body)
}

// asValidationError converts an API error response whose entries carry batch
// positions into a *ledger.ValidationError. Other errors pass through.
func asValidationError(err error) error {
	errResp := &ledger.ErrorResponse{}
	if !errors.As(err, &errResp) {
		return err
	}

	if errResp.StatusCode != 400 && errResp.StatusCode != 422 {
		return err
	}

	entries := make([]ledger.FieldError, 0, len(errResp.Errors))

	for _, apiErr := range errResp.Errors {
		if apiErr.Index == nil {
			return err
		}

		entries = append(entries, ledger.FieldError{
			Index:   *apiErr.Index,
			Code:    apiErr.Code,
			Message: apiErr.Message,
		})
	}

	if len(entries) == 0 {
		return err
	}

	return &ledger.ValidationError{Entries: entries}
}

// GetID fetches one resource by its server-assigned id. A 404 surfaces as an
// error for which ledger.IsNotFound reports true.
func GetID[T any](ctx context.Context, schema Schema, id string, credential *ledger.Credential) (*T, error) {
	client, resolved, err := clientFor(credential)
	if err != nil {
		return nil, err
	}

	settings := ledger.Default()
	cache := cacheFor(settings)
	cacheKey := string(resolved.Environment) + ":" + schema.endpoint() + ":" + id

	if cache != nil {
		entry, cacheErr := cache.Get(ctx, cacheKey)
		if cacheErr == nil {
			item, decodeErr := decodeOne[T](schema, entry.Data)
			if decodeErr == nil {
				return item, nil
			}
		}
	}

	resp, err := client.Get(ctx, "/"+schema.endpoint()+"/"+id, nil)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		_ = cache.Set(ctx, cacheKey, &ledger.CacheEntry{
			Data:      resp.Body,
			ExpiresAt: time.Now().Add(settings.Cache.EntryTTL()),
		})
	}

	return decodeOne[T](schema, resp.Body)
}

// GetPage fetches exactly one server page. The page size is bounded by the
// API's cap regardless of the requested limit.
func GetPage[T any](ctx context.Context, schema Schema, query *ledger.Query, credential *ledger.Credential) (*ledger.Page[T], error) {
	client, _, err := clientFor(credential)
	if err != nil {
		return nil, err
	}

	bounded := query.Clone()
	if bounded.Limit > constants.MaxPageSize {
		bounded.Limit = constants.MaxPageSize
	}

	resp, err := client.Get(ctx, "/"+schema.endpoint(), bounded.ToValues())
	if err != nil {
		return nil, err
	}

	return decodePage[T](schema, resp.Body)
}

// GetStream returns a lazy sequence over all matching resources, fetching
// pages on demand. The query's Limit bounds the total number of items
// yielded; zero means every match. Fetch errors surface from the stream at
// the point the failing page was needed.
func GetStream[T any](ctx context.Context, schema Schema, query *ledger.Query, credential *ledger.Credential) *ledger.Stream[T] {
	base := query.Clone()
	limit := base.Limit

	fetch := func(ctx context.Context, cursor string, pageSize int) ([]T, string, error) {
		pageQuery := base.Clone()
		pageQuery.Cursor = cursor
		pageQuery.Limit = pageSize

		page, err := GetPage[T](ctx, schema, pageQuery, credential)
		if err != nil {
			return nil, "", err
		}

		return page.Items, page.Cursor, nil
	}

	return ledger.NewStream(ctx, limit, fetch)
}

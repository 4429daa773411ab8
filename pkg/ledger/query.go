package ledger

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// dateLayout is the wire format for date bounds.
const dateLayout = "2006-01-02"

// Query expresses list filters. Unset fields are omitted from the outgoing
// request, never sent as empty or null; list values are comma-joined.
type Query struct {
	// Limit caps the total number of items a stream yields, or the page size
	// for a single-page fetch. Zero means no limit.
	Limit int

	// Cursor resumes a paged listing. Opaque; only valid with the same
	// filter set that produced it.
	Cursor string

	// After and Before bound the created date (inclusive).
	After  *time.Time
	Before *time.Time

	// Status filters by resource status.
	Status string

	// Tags filters by tags; all must match.
	Tags []string

	// IDs restricts results to the given resource IDs.
	IDs []string

	// Extra carries resource-specific filters by parameter name.
	Extra map[string]string
}

// NewQuery creates an empty query.
func NewQuery() *Query {
	return &Query{}
}

// WithLimit sets the item budget.
func (q *Query) WithLimit(limit int) *Query {
	q.Limit = limit

	return q
}

// WithAfter sets the lower created-date bound.
func (q *Query) WithAfter(after time.Time) *Query {
	q.After = &after

	return q
}

// WithBefore sets the upper created-date bound.
func (q *Query) WithBefore(before time.Time) *Query {
	q.Before = &before

	return q
}

// WithStatus filters by status.
func (q *Query) WithStatus(status string) *Query {
	q.Status = status

	return q
}

// WithTags filters by tags.
func (q *Query) WithTags(tags ...string) *Query {
	q.Tags = tags

	return q
}

// WithIDs restricts results to the given IDs.
func (q *Query) WithIDs(ids ...string) *Query {
	q.IDs = ids

	return q
}

// WithFilter sets a resource-specific filter.
func (q *Query) WithFilter(name, value string) *Query {
	if q.Extra == nil {
		q.Extra = make(map[string]string)
	}

	q.Extra[name] = value

	return q
}

// ToValues converts the query to URL values. Nil-safe.
func (q *Query) ToValues() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Cursor != "" {
		values.Set("cursor", q.Cursor)
	}

	if q.After != nil {
		values.Set("after", q.After.Format(dateLayout))
	}

	if q.Before != nil {
		values.Set("before", q.Before.Format(dateLayout))
	}

	if q.Status != "" {
		values.Set("status", q.Status)
	}

	if len(q.Tags) > 0 {
		values.Set("tags", strings.Join(q.Tags, ","))
	}

	if len(q.IDs) > 0 {
		values.Set("ids", strings.Join(q.IDs, ","))
	}

	for name, value := range q.Extra {
		if value != "" {
			values.Set(name, value)
		}
	}

	return values
}

// Clone returns a deep copy so a stream can page without mutating the
// caller's query.
func (q *Query) Clone() *Query {
	if q == nil {
		return &Query{}
	}

	clone := *q
	clone.Tags = append([]string(nil), q.Tags...)
	clone.IDs = append([]string(nil), q.IDs...)

	if q.Extra != nil {
		clone.Extra = make(map[string]string, len(q.Extra))
		for name, value := range q.Extra {
			clone.Extra[name] = value
		}
	}

	return &clone
}

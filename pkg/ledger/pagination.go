package ledger

import (
	"context"

	"github.com/fennelpay/ledger-go/internal/constants"
)

// PageFetcher fetches one page: items plus the next cursor. pageSize is the
// requested page size; zero lets the server pick. An empty returned cursor
// ends the sequence.
type PageFetcher[T any] func(ctx context.Context, cursor string, pageSize int) ([]T, string, error)

// Stream is a lazy, ordered, forward-only sequence over a paged listing. It
// keeps at most one page in memory and performs at most one page fetch at a
// time; abandoning it simply stops further fetches. A stream is single-pass
// and not restartable, and must not be shared across goroutines; drive
// independent streams for concurrent consumption.
type Stream[T any] struct {
	ctx       context.Context
	fetch     PageFetcher[T]
	buffer    []T
	pos       int
	cursor    string
	remaining int // item budget; -1 means unbounded
	done      bool
	err       error
}

// NewStream builds a stream with the given item budget (0 = unbounded).
func NewStream[T any](ctx context.Context, limit int, fetch PageFetcher[T]) *Stream[T] {
	remaining := -1
	if limit > 0 {
		remaining = limit
	}

	return &Stream[T]{ctx: ctx, fetch: fetch, remaining: remaining}
}

// advance fetches pages until the buffer has an item, the sequence ends, or
// a fetch fails. Previously yielded items stay valid on failure.
func (s *Stream[T]) advance() {
	for s.pos >= len(s.buffer) && !s.done && s.err == nil {
		pageSize := constants.MaxPageSize
		if s.remaining >= 0 && s.remaining < pageSize {
			pageSize = s.remaining
		}

		items, cursor, err := s.fetch(s.ctx, s.cursor, pageSize)
		if err != nil {
			s.err = err

			return
		}

		// A page larger than the remaining budget never yields past the limit.
		if s.remaining >= 0 && len(items) > s.remaining {
			items = items[:s.remaining]
		}

		s.buffer = items
		s.pos = 0
		s.cursor = cursor

		if s.remaining >= 0 {
			s.remaining -= len(items)
			if s.remaining <= 0 {
				s.remaining = 0
				s.done = true
			}
		}

		if cursor == "" {
			s.done = true
		}
	}
}

// HasNext reports whether Next will yield another item or a pending error.
// It may trigger a page fetch.
func (s *Stream[T]) HasNext() bool {
	s.advance()

	return s.pos < len(s.buffer) || s.err != nil
}

// Next yields the next item in server order. After exhaustion it returns
// ErrStreamExhausted; after a failed fetch it returns that error.
func (s *Stream[T]) Next() (T, error) {
	var zero T

	s.advance()

	if s.err != nil {
		return zero, s.err
	}

	if s.pos >= len(s.buffer) {
		return zero, ErrStreamExhausted
	}

	item := s.buffer[s.pos]
	s.pos++

	return item, nil
}

// Err returns the first fetch error, if any.
func (s *Stream[T]) Err() error {
	return s.err
}

// All drains the stream into a slice. With a finite limit this collects
// exactly min(limit, total matching items).
func (s *Stream[T]) All() ([]T, error) {
	var items []T

	for s.HasNext() {
		item, err := s.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	return items, nil
}

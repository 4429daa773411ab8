package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fennelpay/ledger-go/pkg/ledger"
)

// pagedFetcher yields the given pages in order and records each requested
// page size.
func pagedFetcher(pages [][]string, sizes *[]int) ledger.PageFetcher[string] {
	return func(_ context.Context, cursor string, pageSize int) ([]string, string, error) {
		*sizes = append(*sizes, pageSize)

		index := 0
		if cursor != "" {
			_, _ = fmt.Sscanf(cursor, "page-%d", &index)
		}

		next := ""
		if index+1 < len(pages) {
			next = fmt.Sprintf("page-%d", index+1)
		}

		return pages[index], next, nil
	}
}

func TestStream_WalksAllPages(t *testing.T) {
	t.Parallel()

	var sizes []int

	fetch := pagedFetcher([][]string{{"a", "b"}, {"c", "d"}, {"e"}}, &sizes)
	stream := ledger.NewStream(context.Background(), 0, fetch)

	all, err := stream.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, all)
	assert.Len(t, sizes, 3)
	require.NoError(t, stream.Err())

	// A drained stream stays drained.
	assert.False(t, stream.HasNext())

	_, err = stream.Next()
	require.ErrorIs(t, err, ledger.ErrStreamExhausted)
}

func TestStream_LimitBoundsItemsAndFetches(t *testing.T) {
	t.Parallel()

	var sizes []int

	fetch := pagedFetcher([][]string{{"a", "b"}, {"c", "d"}, {"e"}}, &sizes)
	stream := ledger.NewStream(context.Background(), 3, fetch)

	all, err := stream.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, all)

	// The budget shrinks the trailing page request.
	assert.Equal(t, []int{3, 1}, sizes)
}

func TestStream_LimitOneFetchesOnce(t *testing.T) {
	t.Parallel()

	var sizes []int

	fetch := pagedFetcher([][]string{{"a"}, {"b"}}, &sizes)
	stream := ledger.NewStream(context.Background(), 1, fetch)

	all, err := stream.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, all)
	assert.Equal(t, []int{1}, sizes)
}

func TestStream_LazyFetch(t *testing.T) {
	t.Parallel()

	var sizes []int

	fetch := pagedFetcher([][]string{{"a", "b"}, {"c"}}, &sizes)
	stream := ledger.NewStream(context.Background(), 0, fetch)

	// Nothing is fetched before the first item is demanded.
	assert.Empty(t, sizes)

	first, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", first)
	assert.Len(t, sizes, 1)

	// The buffered item is served without another fetch.
	second, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", second)
	assert.Len(t, sizes, 1)
}

func TestStream_FetchErrorIsSticky(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("listing failed")
	calls := 0

	fetch := func(context.Context, string, int) ([]string, string, error) {
		calls++
		if calls == 1 {
			return []string{"a"}, "page-1", nil
		}

		return nil, "", fetchErr
	}

	stream := ledger.NewStream(context.Background(), 0, fetch)

	first, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", first)

	// HasNext reports true so the error surfaces from Next, not silently.
	assert.True(t, stream.HasNext())

	_, err = stream.Next()
	require.ErrorIs(t, err, fetchErr)
	require.ErrorIs(t, stream.Err(), fetchErr)

	// The failed fetch is not repeated.
	_, err = stream.Next()
	require.ErrorIs(t, err, fetchErr)
	assert.Equal(t, 2, calls)
}

func TestStream_EmptyListing(t *testing.T) {
	t.Parallel()

	fetch := func(context.Context, string, int) ([]string, string, error) {
		return nil, "", nil
	}

	stream := ledger.NewStream(context.Background(), 0, fetch)

	assert.False(t, stream.HasNext())

	all, err := stream.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

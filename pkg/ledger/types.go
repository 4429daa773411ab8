package ledger

// Page holds one server page of results plus the continuation cursor. An
// empty cursor means no further pages exist.
type Page[T any] struct {
	Items  []T    `json:"items"  yaml:"items"`
	Cursor string `json:"cursor" yaml:"cursor"`
}

// HasMore reports whether another page can be fetched.
func (p *Page[T]) HasMore() bool {
	return p.Cursor != ""
}

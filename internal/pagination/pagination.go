// Package pagination holds the page/offset query and result types shared by
// every paginated list in the client.
package pagination

const (
	DefaultPageSize = 10
	MaxPageSize     = 200
)

// NormalizePageSize clamps size to a valid range.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// PageQuery selects one window of a list. Offset is always derived from Page
// so the two can never drift apart.
type PageQuery struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Filter   string `json:"filter,omitempty"`
}

// NewPageQuery returns the first page with a normalized size.
func NewPageQuery(pageSize int) PageQuery {
	return PageQuery{Page: 1, PageSize: NormalizePageSize(pageSize)}
}

// Normalize clamps Page to >= 1 and PageSize to the valid range.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	q.PageSize = NormalizePageSize(q.PageSize)
	return q
}

// Offset is the zero-based index of the first row on the page.
func (q PageQuery) Offset() int {
	q = q.Normalize()
	return (q.Page - 1) * q.PageSize
}

// Limit is the page size sent to the server.
func (q PageQuery) Limit() int {
	return NormalizePageSize(q.PageSize)
}

// WithPage moves to page p (clamped to 1).
func (q PageQuery) WithPage(p int) PageQuery {
	q.Page = p
	return q.Normalize()
}

// WithFilter changes the filter text and goes back to the first page.
func (q PageQuery) WithFilter(filter string) PageQuery {
	q.Filter = filter
	q.Page = 1
	return q.Normalize()
}

// ListResult is one fetched page. Total is nil when the server does not
// report a count.
type ListResult[T any] struct {
	Items []T
	Total *int
}

// Counted builds a server-counted result.
func Counted[T any](items []T, total int) ListResult[T] {
	if total < 0 {
		total = 0
	}
	return ListResult[T]{Items: items, Total: &total}
}

// Uncounted builds a result for a list whose server reports no total.
func Uncounted[T any](items []T) ListResult[T] {
	return ListResult[T]{Items: items}
}

// HasPrevious reports whether a page precedes q.
func HasPrevious(q PageQuery) bool {
	return q.Normalize().Page > 1
}

// HasNext reports whether another page follows q given its result.
//
// Without a total the rule is len(items) == pageSize: a full last page is
// indistinguishable from one that has a successor, so this may report a
// next page that turns out empty.
func (r ListResult[T]) HasNext(q PageQuery) bool {
	q = q.Normalize()
	if r.Total != nil {
		return q.Offset()+len(r.Items) < *r.Total
	}
	return len(r.Items) == q.PageSize
}

// TotalPages returns the page count when Total is known, else 0.
func (r ListResult[T]) TotalPages(pageSize int) int {
	if r.Total == nil {
		return 0
	}
	return TotalPages(*r.Total, pageSize)
}

// TotalPages computes max(1, ceil(total/pageSize)).
func TotalPages(total, pageSize int) int {
	pageSize = NormalizePageSize(pageSize)
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Window slices items to the page q selects. It is used by lists the server
// returns whole.
func Window[T any](items []T, q PageQuery) []T {
	q = q.Normalize()
	start := q.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + q.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

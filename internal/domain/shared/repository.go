package shared

// Filter represents query filters for repository operations
type Filter struct {
	Field    string
	Operator string // eq, ne, gt, lt, gte, lte, like, in
	Value    interface{}
}

// Pagination represents pagination parameters
type Pagination struct {
	Page     int
	PageSize int
}

// Offset returns the offset for the current page
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Limit returns the page size, bounded to a sane default
func (p Pagination) Limit() int {
	if p.PageSize < 1 {
		return 20
	}
	if p.PageSize > 100 {
		return 100
	}
	return p.PageSize
}

// Paginated wraps a page of results with the total count
type Paginated[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

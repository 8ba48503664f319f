package entity

// ListOptions carries limit/offset pagination parameters. When only Offset is
// supplied by the caller, page numbers are derived from it.
type ListOptions struct {
	Limit  int
	Offset int
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Normalize clamps Limit to [1, MaxListLimit] and Offset to >= 0.
func (o *ListOptions) Normalize() {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

// Pagination describes one page of a listing.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	Limit       int  `json:"limit"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPagination computes page numbers from offset/limit and the total row
// count: currentPage = floor(offset/limit)+1.
func NewPagination(total int, opts ListOptions) Pagination {
	opts.Normalize()
	totalPages := total / opts.Limit
	if total%opts.Limit != 0 {
		totalPages++
	}
	current := opts.Offset/opts.Limit + 1
	return Pagination{
		CurrentPage: current,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       opts.Limit,
		HasNext:     current < totalPages,
		HasPrev:     current > 1 && total > 0,
	}
}

// BulkResult reports the outcome of a bulk update or delete. SkippedIds lists
// members excluded by the use-count or default-flag guards.
type BulkResult struct {
	Count      int      `json:"count"`
	SkippedIds []string `json:"skippedIds,omitempty"`
}

package query

const (
	// MaxPageSize is the upper bound every requested page size is clamped to
	MaxPageSize = 10

	// DefaultPageSize is the page size used if none is requested
	DefaultPageSize = 10

	// DefaultOrderBy is the sort expression used if none is requested
	DefaultOrderBy = "Id"
)

// Request describes a single pipeline execution
type Request struct {
	// PageNumber is the 1-based number of the requested page
	PageNumber int

	// FilterExpression is an optional conjunction of comparisons, see ParseFilter
	FilterExpression string

	// OrderBy is an optional sort expression, see ParseSort
	OrderBy string

	// DisplayedFields is an optional comma separated field list, see ParseFields
	DisplayedFields string

	pageSize int
}

// NewRequest returns a request for the first page using the default page size and sort expression
func NewRequest() *Request {
	return &Request{
		PageNumber: 1,
		OrderBy:    DefaultOrderBy,
		pageSize:   DefaultPageSize,
	}
}

// PageSize returns the clamped page size
func (request *Request) PageSize() int {
	return request.pageSize
}

// SetPageSize sets the page size, silently clamping it into [0, MaxPageSize]
func (request *Request) SetPageSize(size int) {
	request.pageSize = max(0, min(size, MaxPageSize))
}

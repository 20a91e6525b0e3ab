package schema

import "github.com/skybi/user-service/internal/query"

// PaginatedResponse represents a unified paginated API response
type PaginatedResponse[T any] struct {
	Items           []T  `json:"items"`
	TotalPages      int  `json:"total_pages"`
	PageNumber      int  `json:"page_number"`
	PageSize        int  `json:"page_size"`
	TotalCount      int  `json:"total_count"`
	HasPreviousPage bool `json:"has_previous_page"`
	HasNextPage     bool `json:"has_next_page"`
}

// BuildPaginatedResponse builds a unified paginated API response out of a query page
func BuildPaginatedResponse[T any](page *query.Page[T]) *PaginatedResponse[T] {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return &PaginatedResponse[T]{
		Items:           items,
		TotalPages:      page.TotalPages,
		PageNumber:      page.PageNumber,
		PageSize:        page.PageSize,
		TotalCount:      page.TotalCount,
		HasPreviousPage: page.HasPreviousPage(),
		HasNextPage:     page.HasNextPage(),
	}
}

package query

// Page is one slice of a larger result set plus its pagination metadata
type Page[T any] struct {
	Items      []T
	PageNumber int
	PageSize   int
	TotalCount int
	TotalPages int
}

// HasPreviousPage reports whether a page precedes this one
func (page *Page[T]) HasPreviousPage() bool {
	return page.PageNumber > 1
}

// HasNextPage reports whether a page follows this one
func (page *Page[T]) HasNextPage() bool {
	return page.PageNumber < page.TotalPages
}

// Paginate cuts the page with the given 1-based number out of items.
// A page past the end is empty but carries valid metadata. A non-positive page size yields no items and no pages.
func Paginate[T any](items []T, pageNumber, pageSize int) *Page[T] {
	page := &Page[T]{
		Items:      []T{},
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: len(items),
	}
	if pageSize <= 0 {
		return page
	}
	page.TotalPages = page.TotalCount / pageSize
	if page.TotalCount%pageSize != 0 {
		page.TotalPages++
	}

	skip := 0
	if pageNumber > 1 {
		// Compared in pages first so that huge page numbers cannot overflow the offset
		if pageNumber-1 >= page.TotalPages {
			return page
		}
		skip = (pageNumber - 1) * pageSize
	}
	if skip >= len(items) {
		return page
	}
	end := skip + min(pageSize, len(items)-skip)
	page.Items = append(page.Items, items[skip:end]...)
	return page
}

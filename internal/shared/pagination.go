package shared

// DefaultWindow is how many page links a pager shows.
const DefaultWindow = 5

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPagination computes pagination metadata for a local listing.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := (total + perPage - 1) / perPage
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the row offset of the current page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PageWindow returns up to size page numbers around current. The window is
// pinned to the start while current is within the first half of it and to
// the end while current is within the last half.
func PageWindow(current, total, size int) []int {
	if total <= 0 {
		return nil
	}
	if size <= 0 {
		size = DefaultWindow
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	if total <= size {
		return pageRange(1, total)
	}
	half := size / 2
	switch {
	case current <= half+1:
		return pageRange(1, size)
	case current >= total-half:
		return pageRange(total-size+1, total)
	default:
		return pageRange(current-half, current-half+size-1)
	}
}

func pageRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

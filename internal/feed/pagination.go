// Package feed holds the pure pagination math for the vibe feed.
package feed

// Window returns the slice of ids visible on a 1-based page:
// ids[(page-1)*size : min(page*size, len(ids))]. Pages outside the valid
// range clamp to the nearest valid page rather than failing.
func Window(ids []uint64, page, size int) []uint64 {
	if size < 1 || len(ids) == 0 {
		return nil
	}

	page = ClampPage(page, PageCount(len(ids), size))

	start := (page - 1) * size
	end := page * size
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end]
}

// PageCount is ceil(total/size), never less than 1: an empty feed still has
// one (empty) page.
func PageCount(total, size int) int {
	if size < 1 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// ClampPage folds out-of-range navigation into a no-op at the boundary.
func ClampPage(page, pageCount int) int {
	if page < 1 {
		return 1
	}
	if page > pageCount {
		return pageCount
	}
	return page
}

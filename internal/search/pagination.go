package search

// NumPages returns how many pages a sequence of n elements spans.
func NumPages(n, perPage int) int {
	if perPage <= 0 || n <= 0 {
		return 0
	}
	return (n + perPage - 1) / perPage
}

// Page slices one page out of an ordered sequence. Pages are 1-based; a
// page number past the end yields the last page and zero or negative page
// numbers yield the first, so a non-empty sequence never produces an empty
// page. An empty sequence yields an empty result for any page number.
// A perPage of zero or less is a caller error and yields an empty result.
func Page[T any](items []T, page, perPage int) []T {
	if len(items) == 0 || perPage <= 0 {
		return []T{}
	}

	last := NumPages(len(items), perPage)
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

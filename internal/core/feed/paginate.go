package feed

// Page is one page of a partition. Number is 1-indexed and already
// clamped; Total is the page count for the partition.
type Page struct {
	Items  []Entry
	Number int
	Total  int
}

// Paginate slices entries into fixed-size pages. The requested page is
// clamped into [1, total]: when new data shrinks the partition under the
// current page index, the caller lands on the last page instead of
// erroring. A non-positive size is treated as a single page.
func Paginate(entries []Entry, page, size int) Page {
	if size <= 0 {
		return Page{Items: entries, Number: 1, Total: 1}
	}

	total := (len(entries) + size - 1) / size
	if total < 1 {
		total = 1
	}
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	start := (page - 1) * size
	if start > len(entries) {
		start = len(entries)
	}
	end := start + size
	if end > len(entries) {
		end = len(entries)
	}

	return Page{Items: entries[start:end], Number: page, Total: total}
}

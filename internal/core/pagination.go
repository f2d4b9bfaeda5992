package core

// DefaultPageSize is the number of expenses shown per page.
const DefaultPageSize = 5

// Paginate returns page pageNumber (1-based) of records, which the caller
// has already sorted. Invalid arguments and pages past the end yield an
// empty, non-nil slice. The result shares backing storage with records.
func Paginate(records []Expense, pageSize, pageNumber int) []Expense {
	if pageSize <= 0 || pageNumber < 1 || pageNumber > TotalPages(len(records), pageSize) {
		return []Expense{}
	}
	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end:end]
}

// TotalPages is ceil(n / pageSize); zero records means zero pages.
func TotalPages(n, pageSize int) int {
	if n <= 0 || pageSize <= 0 {
		return 0
	}
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	return pages
}

// ClampPage keeps a requested page inside [1, totalPages]. With no pages it returns 1.
func ClampPage(page, totalPages int) int {
	if page < 1 || totalPages < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Package pagelist holds the offset-pagination arithmetic shared by the
// listing endpoints.
package pagelist

// Normalize clamps page and limit to sane values (page >= 1, 1 <= limit <= 100).
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// Offset returns the row offset for a page/limit pair.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// Pages returns the total page count for a result set.
func Pages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}

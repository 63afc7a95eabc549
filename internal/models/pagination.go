package models

// Page is the shared pagination envelope for list endpoints.
type Page struct {
	Count      int   `json:"count"`
	Total      int64 `json:"total"`
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

func NewPage(count int, total, page, limit int64) Page {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return Page{Count: count, Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

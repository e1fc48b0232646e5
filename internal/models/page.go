package models

// Page is the pagination envelope returned by list endpoints
type Page[T any] struct {
	Data        []T   `json:"data"`
	Total       int64 `json:"total"`
	PageSize    int64 `json:"pageSize"`
	CurrentPage int64 `json:"currentPage"`
}

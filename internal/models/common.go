// server/internal/models/common.go
package models

// DefaultPageSize is the number of documents returned per page on list endpoints.
const DefaultPageSize = 20

// Paginated is the envelope for paginated list responses.
type Paginated struct {
	Items      interface{} `json:"items"`
	Page       int64       `json:"page"`
	PageSize   int64       `json:"pageSize"`
	TotalCount int64       `json:"totalCount"`
}

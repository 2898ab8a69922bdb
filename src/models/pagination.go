package models

import (
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// PaginationParams holds paging and ordering for a listing.
type PaginationParams struct {
	Page   int    `json:"page" query:"page" example:"1"`
	Limit  int    `json:"limit" query:"limit" example:"10"`
	SortBy string `json:"sortBy" query:"sortBy" example:"createdAt"`
	Order  string `json:"order" query:"order" example:"desc"`
}

// PaginatedResponse is a single page of T.
type PaginatedResponse[T any] struct {
	Data        []T   `json:"data"`
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// DefaultPagination returns the first page of ten, newest first.
func DefaultPagination() PaginationParams {
	return PaginationParams{
		Page:   1,
		Limit:  10,
		SortBy: "createdAt",
		Order:  "desc",
	}
}

// PaginationFromSortKey builds params from a sort key such as "-price".
func PaginationFromSortKey(key string, page, limit int) PaginationParams {
	p := DefaultPagination()
	if page > 0 {
		p.Page = page
	}
	if limit > 0 {
		p.Limit = limit
	}
	if key != "" {
		if strings.HasPrefix(key, "-") {
			p.SortBy = strings.TrimPrefix(key, "-")
			p.Order = "desc"
		} else {
			p.SortBy = key
			p.Order = "asc"
		}
	}
	return p
}

// NewPaginatedResponse wraps data with paging metadata.
func NewPaginatedResponse[T any](data []T, total int64, params PaginationParams) *PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if params.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(params.Limit)))
	}

	return &PaginatedResponse[T]{
		Data:        data,
		Total:       total,
		Page:        params.Page,
		Limit:       params.Limit,
		TotalPages:  totalPages,
		HasNext:     params.Page < totalPages,
		HasPrevious: params.Page > 1,
	}
}

// GetSkip returns how many documents precede the page. Pages below 1 and
// products that overflow skip nothing.
func (p *PaginationParams) GetSkip() int64 {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	page, limit := int64(p.Page-1), int64(p.Limit)
	if page > math.MaxInt64/limit {
		return 0
	}
	return page * limit
}

// GetSortOrder returns a Mongo sort document, with _id as tie-breaker.
func (p *PaginationParams) GetSortOrder() bson.D {
	order := 1
	if p.Order == "desc" {
		order = -1
	}
	sort := bson.D{{Key: p.SortBy, Value: order}}
	if p.SortBy != "_id" {
		sort = append(sort, bson.E{Key: "_id", Value: order})
	}
	return sort
}

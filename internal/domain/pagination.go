package domain

import "fmt"

type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func NewPaginatedResponse[T any](data []T, page, pageSize int, totalItems int64) PaginatedResponse[T] {
	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))

	return PaginatedResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// SkipLimit is offset pagination as the comment endpoints take it.
type SkipLimit struct {
	Skip  int `json:"skip" query:"skip"`
	Limit int `json:"limit" query:"limit"`
}

func (p *SkipLimit) Validate(defaultLimit int) error {
	if p.Skip < 0 {
		return fmt.Errorf("%w: skip must not be negative", ErrValidation)
	}
	if p.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrValidation)
	}
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	return nil
}

// Window returns the [lo, hi) bounds of the page within n items.
func (p SkipLimit) Window(n int) (int, int) {
	lo := p.Skip
	if lo > n {
		lo = n
	}
	hi := lo + p.Limit
	if hi > n {
		hi = n
	}
	return lo, hi
}

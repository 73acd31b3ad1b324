package model

// DefaultPerPage is the fixed listing page size.
const DefaultPerPage = 5

// Page is one page of a listing plus the metadata needed to navigate it.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
	NextNum *int  `json:"next_num,omitempty"`
	PrevNum *int  `json:"prev_num,omitempty"`
}

// NewPage fills navigation metadata from the total row count.
func NewPage[T any](items []T, page, perPage int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if perPage > 0 {
		pages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	p := Page[T]{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
	if p.HasNext {
		n := page + 1
		p.NextNum = &n
	}
	if p.HasPrev {
		n := page - 1
		p.PrevNum = &n
	}
	return p
}

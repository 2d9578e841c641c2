package utils

// PaginationMeta mirrors the listing envelope the API exposes. NextPage and
// PrevPage are null past the edges rather than clamped.
type PaginationMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	LastPage int   `json:"lastPage"`
	HasNext  bool  `json:"hasNext"`
	HasPrev  bool  `json:"hasPrev"`
	NextPage *int  `json:"nextPage"`
	PrevPage *int  `json:"prevPage"`
}

func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	lastPage := int((total + int64(limit) - 1) / int64(limit))
	if lastPage < 1 {
		lastPage = 1
	}

	meta := PaginationMeta{
		Total:    total,
		Page:     page,
		LastPage: lastPage,
		HasNext:  page < lastPage,
		HasPrev:  page > 1,
	}
	if meta.HasNext {
		next := page + 1
		meta.NextPage = &next
	}
	if meta.HasPrev {
		prev := page - 1
		meta.PrevPage = &prev
	}
	return meta
}

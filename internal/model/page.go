package model

// PageQuery is a 1-based page request shared by list filters.
type PageQuery struct {
	Page    int
	PerPage int
}

// Normalize clamps the page to sane bounds.
func (p PageQuery) Normalize() PageQuery {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 10
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
	return p
}

// Offset is the number of rows to skip.
func (p PageQuery) Offset() int {
	return (p.Page - 1) * p.PerPage
}

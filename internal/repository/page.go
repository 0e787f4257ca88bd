package repository

import (
	"fmt"
	"math"
)

// Pageable identifies one page of a result set
type Pageable struct {
	Page int // Zero-based page index
	Size int // Maximum number of entities per page
}

// PageRequest builds a Pageable
func PageRequest(page, size int) Pageable {
	return Pageable{Page: page, Size: size}
}

// Validate checks that the page index and size are usable
func (p Pageable) Validate() error {
	if p.Page < 0 {
		return fmt.Errorf("page index %d must not be negative: %w", p.Page, ErrInvalidPageable)
	}
	if p.Size < 1 {
		return fmt.Errorf("page size %d must be at least one: %w", p.Size, ErrInvalidPageable)
	}
	return nil
}

// Offset returns the number of entities preceding the page.
// Offsets beyond the int64 range saturate at math.MaxInt64.
func (p Pageable) Offset() int64 {
	page, size := int64(p.Page), int64(p.Size)
	if page > 0 && size > 0 && page > math.MaxInt64/size {
		return math.MaxInt64
	}
	return page * size
}

// Page is one page of entities plus the totals of the whole result set
type Page[T any] struct {
	Content       []T
	Number        int   // Zero-based page index
	Size          int   // Requested page size
	TotalElements int64 // Entities matching the query across all pages
	TotalPages    int   // ceil(TotalElements / Size)
}

// NewPage assembles a page and derives its page count
func NewPage[T any](content []T, pageable Pageable, total int64) Page[T] {
	pages := 0
	if pageable.Size > 0 {
		size := int64(pageable.Size)
		pages = int(total / size)
		if total%size != 0 {
			pages++
		}
	}
	if content == nil {
		content = []T{}
	}
	return Page[T]{
		Content:       content,
		Number:        pageable.Page,
		Size:          pageable.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}

// IsEmpty reports whether the page holds no entities
func (p Page[T]) IsEmpty() bool {
	return len(p.Content) == 0
}

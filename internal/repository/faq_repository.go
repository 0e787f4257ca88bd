package repository

import (
	"context"

	"github.com/jbweber/homelab/simpledms/internal/datastore"
	"github.com/jbweber/homelab/simpledms/internal/domain"
)

// FaqRepository extends the paging repository with FAQ-specific finders.
// FAQs have no soft-delete columns; deletes remove rows.
type FaqRepository interface {
	PagingRepository[domain.Faq, int64]

	// FindAllByTitleContaining pages through FAQs whose title contains title
	FindAllByTitleContaining(ctx context.Context, title string, pageable Pageable) (Page[domain.Faq], error)
}

var faqTable = Table[domain.Faq]{
	Entity:       "faq",
	Name:         "tb_faq",
	IDColumn:     "faq_no",
	SearchColumn: "title",
	Columns:      []string{"title", "content"},
	ID:           func(f *domain.Faq) *int64 { return &f.No },
	Fields:       func(f *domain.Faq) []any { return []any{&f.Title, &f.Content} },
	Audit:        func(f *domain.Faq) *domain.Audit { return &f.Audit },
}

// faqRepositoryImpl implements FaqRepository
type faqRepositoryImpl struct {
	*SQLRepository[domain.Faq]
}

// NewFaqRepository creates a new FAQ repository
func NewFaqRepository(ds *datastore.Datastore) FaqRepository {
	return &faqRepositoryImpl{
		SQLRepository: NewSQLRepository(ds, faqTable),
	}
}

// FindAllByTitleContaining pages through FAQs by title substring
func (r *faqRepositoryImpl) FindAllByTitleContaining(ctx context.Context, title string, pageable Pageable) (Page[domain.Faq], error) {
	return r.FindAllContaining(ctx, title, pageable)
}

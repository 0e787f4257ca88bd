package repository

import (
	"context"

	"github.com/jbweber/homelab/simpledms/internal/datastore"
	"github.com/jbweber/homelab/simpledms/internal/domain"
)

// CustomerRepository extends the paging repository with customer-specific finders
type CustomerRepository interface {
	PagingRepository[domain.Customer, int64]

	// FindAllByEmailContaining pages through live customers whose email contains email
	FindAllByEmailContaining(ctx context.Context, email string, pageable Pageable) (Page[domain.Customer], error)
}

var customerTable = Table[domain.Customer]{
	Entity:       "customer",
	Name:         "tb_customer",
	IDColumn:     "cid",
	SearchColumn: "email",
	Columns:      []string{"first_name", "last_name", "email", "phone"},
	SoftDelete:   true,
	ID:           func(c *domain.Customer) *int64 { return &c.CID },
	Fields: func(c *domain.Customer) []any {
		return []any{&c.FirstName, &c.LastName, &c.Email, &c.Phone}
	},
	Audit: func(c *domain.Customer) *domain.Audit { return &c.Audit },
	Flags: func(c *domain.Customer) *domain.SoftDelete { return &c.SoftDelete },
}

// customerRepositoryImpl implements CustomerRepository
type customerRepositoryImpl struct {
	*SQLRepository[domain.Customer]
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(ds *datastore.Datastore) CustomerRepository {
	return &customerRepositoryImpl{
		SQLRepository: NewSQLRepository(ds, customerTable),
	}
}

// FindAllByEmailContaining pages through live customers by email substring
func (r *customerRepositoryImpl) FindAllByEmailContaining(ctx context.Context, email string, pageable Pageable) (Page[domain.Customer], error) {
	return r.FindAllContaining(ctx, email, pageable)
}

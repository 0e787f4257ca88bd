package repository

import (
	"context"

	"github.com/jbweber/homelab/simpledms/internal/datastore"
	"github.com/jbweber/homelab/simpledms/internal/domain"
)

// DeptRepository extends the paging repository with department-specific finders
type DeptRepository interface {
	PagingRepository[domain.Dept, int64]

	// FindAllByDnameContaining pages through live departments whose name contains dname
	FindAllByDnameContaining(ctx context.Context, dname string, pageable Pageable) (Page[domain.Dept], error)
}

var deptTable = Table[domain.Dept]{
	Entity:       "department",
	Name:         "tb_dept",
	IDColumn:     "dno",
	SearchColumn: "dname",
	Columns:      []string{"dname", "loc"},
	SoftDelete:   true,
	ID:           func(d *domain.Dept) *int64 { return &d.DNO },
	Fields:       func(d *domain.Dept) []any { return []any{&d.DName, &d.Loc} },
	Audit:        func(d *domain.Dept) *domain.Audit { return &d.Audit },
	Flags:        func(d *domain.Dept) *domain.SoftDelete { return &d.SoftDelete },
}

// deptRepositoryImpl implements DeptRepository
type deptRepositoryImpl struct {
	*SQLRepository[domain.Dept]
}

// NewDeptRepository creates a new department repository
func NewDeptRepository(ds *datastore.Datastore) DeptRepository {
	return &deptRepositoryImpl{
		SQLRepository: NewSQLRepository(ds, deptTable),
	}
}

// FindAllByDnameContaining pages through live departments by name substring
func (r *deptRepositoryImpl) FindAllByDnameContaining(ctx context.Context, dname string, pageable Pageable) (Page[domain.Dept], error) {
	return r.FindAllContaining(ctx, dname, pageable)
}

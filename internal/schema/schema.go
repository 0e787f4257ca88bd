package schema

import (
	"context"
	"fmt"

	"github.com/jbweber/homelab/simpledms/internal/datastore"
)

// Tables lists every table created by Apply, in creation order
var Tables = []string{"tb_customer", "tb_dept", "tb_faq"}

// statements returns the idempotent DDL for the given dialect
func statements(d datastore.Dialect) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS tb_customer (
			` + d.IdentityColumn("cid") + `,
			first_name VARCHAR(255),
			last_name VARCHAR(255),
			email VARCHAR(255),
			phone VARCHAR(255),
			created_at VARCHAR(19),
			updated_at VARCHAR(19),
			delete_yn CHAR(1) NOT NULL DEFAULT 'N',
			delete_time VARCHAR(19)
		)`,
		`CREATE TABLE IF NOT EXISTS tb_dept (
			` + d.IdentityColumn("dno") + `,
			dname VARCHAR(255),
			loc VARCHAR(255),
			created_at VARCHAR(19),
			updated_at VARCHAR(19),
			delete_yn CHAR(1) NOT NULL DEFAULT 'N',
			delete_time VARCHAR(19)
		)`,
		`CREATE TABLE IF NOT EXISTS tb_faq (
			` + d.IdentityColumn("faq_no") + `,
			title VARCHAR(255),
			content VARCHAR(4000),
			created_at VARCHAR(19),
			updated_at VARCHAR(19)
		)`,

		// Indices backing the live-row predicate and the substring searches
		"CREATE INDEX IF NOT EXISTS idx_customer_delete_yn ON tb_customer(delete_yn)",
		"CREATE INDEX IF NOT EXISTS idx_customer_email ON tb_customer(email)",
		"CREATE INDEX IF NOT EXISTS idx_dept_delete_yn ON tb_dept(delete_yn)",
		"CREATE INDEX IF NOT EXISTS idx_dept_dname ON tb_dept(dname)",
		"CREATE INDEX IF NOT EXISTS idx_faq_title ON tb_faq(title)",
	}
}

// Apply creates any missing tables and indices. It is safe to run on every start.
func Apply(ctx context.Context, ds *datastore.Datastore) error {
	for _, stmt := range statements(ds.Dialect) {
		if _, err := ds.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

package testutil

import (
	"fmt"
	"strings"
)

// NewTestDSN returns a shared-cache in-memory SQLite DSN unique to testName.
// Subtest separators are replaced so the name stays a valid URI path.
func NewTestDSN(testName string) string {
	name := strings.NewReplacer("/", "_", " ", "_", "?", "_", "#", "_").Replace(testName)
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

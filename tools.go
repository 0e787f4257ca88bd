//go:build tools

// Development tools pinned in go.mod.
package simpledms

import (
	_ "golang.org/x/tools/cmd/goimports"
)

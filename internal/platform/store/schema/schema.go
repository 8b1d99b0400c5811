// Package schema holds the postgres DDL and applies it in file order
package schema

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"eventcatalog/internal/platform/store"
)

//go:embed *.sql
var files embed.FS

// Files lists the DDL files in apply order
func Files() []string {
	names, _ := fs.Glob(files, "*.sql")
	sort.Strings(names)
	return names
}

// Apply runs every DDL file inside one transaction; statements are idempotent
func Apply(ctx context.Context, tx store.TxRunner) error {
	return tx.Tx(ctx, func(q store.RowQuerier) error {
		for _, name := range Files() {
			b, err := files.ReadFile(name)
			if err != nil {
				return err
			}
			if _, err := q.Exec(ctx, string(b)); err != nil {
				return fmt.Errorf("schema %s: %w", name, err)
			}
		}
		return nil
	})
}

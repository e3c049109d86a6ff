package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/im-mahdi-74/FX-Cortex/internal/storage/postgres"
)

// RunPostgres applies the embedded warehouse schema files in lexical order.
// Each statement executes on its own so a failure mid-file leaves every
// preceding statement committed; all statements are create-if-absent and a
// retry simply continues where the last run stopped.
func RunPostgres(ctx context.Context, pool *postgres.Pool) error {
	entries, err := fs.ReadDir(PostgresFS, "postgres")
	if err != nil {
		return fmt.Errorf("read embedded postgres schema: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		data, err := fs.ReadFile(PostgresFS, "postgres/"+file)
		if err != nil {
			return fmt.Errorf("read schema file %s: %w", file, err)
		}
		for _, stmt := range splitStatements(string(data)) {
			if _, err := pool.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema file %s: %w", file, err)
			}
		}
	}

	return nil
}

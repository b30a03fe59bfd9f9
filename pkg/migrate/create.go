package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9_]+`)

const migrationSkeleton = `-- +goose Up
-- +goose StatementBegin
SELECT 1; -- replace with forward DDL
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
SELECT 1; -- replace with rollback DDL
-- +goose StatementEnd
`

// CreateSQLMigration writes a timestamped goose skeleton under dir and
// returns its path. The name is slugified into the filename; generation
// fails rather than overwrite if the target already exists.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}

	slug := slugify(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q is empty after slugification", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	version := time.Now().UTC().Format("20060102150405")
	path := filepath.Join(dir, version+"_"+slug+".sql")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration %q: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(migrationSkeleton); err != nil {
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	return path, nil
}

// slugify lowercases the name and collapses everything outside [a-z0-9_]
// into underscores.
func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugRe.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}

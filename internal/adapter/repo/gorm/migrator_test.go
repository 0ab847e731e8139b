package gormrepo

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	gridgymdb "gridgym/db"
)

func TestMigrationFilesSortedSQLOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_index.sql":   {Data: []byte("SELECT 1;")},
		"0001_init.sql":    {Data: []byte("SELECT 1;")},
		"README.md":        {Data: []byte("notes")},
		"archive/0000.sql": {Data: []byte("SELECT 1;")},
	}
	got, err := migrationFiles(fsys)
	if err != nil {
		t.Fatalf("migration files: %v", err)
	}
	if diff := cmp.Diff([]string{"0001_init.sql", "0002_index.sql"}, got); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	got, err := migrationFiles(gridgymdb.Migrations())
	if err != nil {
		t.Fatalf("migration files: %v", err)
	}
	if len(got) == 0 || got[0] != "0001_init.sql" {
		t.Fatalf("embedded migrations got=%v", got)
	}
}

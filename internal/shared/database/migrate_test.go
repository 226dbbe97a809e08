package database

import (
	"io/fs"
	"reflect"
	"testing"
	"testing/fstest"
)

func migrationEntries(t *testing.T, names ...string) []fs.DirEntry {
	t.Helper()

	fsys := fstest.MapFS{}
	for _, name := range names {
		fsys["migrations/"+name] = &fstest.MapFile{}
	}

	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		t.Fatalf("reading test fs: %v", err)
	}
	return entries
}

func TestPendingMigrations(t *testing.T) {
	entries := migrationEntries(t,
		"002_seed_agencies.sql",
		"001_init.sql",
		"003_indexes.sql",
		"notes.txt",
	)

	tests := []struct {
		name    string
		applied map[string]bool
		want    []string
	}{
		{
			"nothing applied",
			map[string]bool{},
			[]string{"001_init.sql", "002_seed_agencies.sql", "003_indexes.sql"},
		},
		{
			"partially applied",
			map[string]bool{"001_init": true, "002_seed_agencies": true},
			[]string{"003_indexes.sql"},
		},
		{
			"fully applied",
			map[string]bool{"001_init": true, "002_seed_agencies": true, "003_indexes": true},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pendingMigrations(entries, tt.applied)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("pendingMigrations() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPendingMigrationsSkipsNonSQL(t *testing.T) {
	entries := migrationEntries(t, "001_init.sql", "README.md")

	got := pendingMigrations(entries, map[string]bool{})
	if !reflect.DeepEqual(got, []string{"001_init.sql"}) {
		t.Errorf("non-sql files must be ignored, got %v", got)
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigration(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "002_add_indexes.up.sql")
	writeMigration(t, dir, "001_create_schema.up.sql")
	writeMigration(t, dir, "001_create_schema.down.sql")
	writeMigration(t, dir, "002_add_indexes.down.sql")
	writeMigration(t, dir, "notes.txt")

	tests := []struct {
		name      string
		direction string
		want      []string
	}{
		{
			name:      "up migrations apply in ascending order",
			direction: "up",
			want:      []string{"001_create_schema.up.sql", "002_add_indexes.up.sql"},
		},
		{
			name:      "down migrations unwind in descending order",
			direction: "down",
			want:      []string{"002_add_indexes.down.sql", "001_create_schema.down.sql"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := migrationFiles(dir, tt.direction)
			if err != nil {
				t.Fatalf("migrationFiles() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("migrationFiles() returned %d files, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if filepath.Base(got[i]) != tt.want[i] {
					t.Errorf("migrationFiles()[%d] = %v, want %v", i, filepath.Base(got[i]), tt.want[i])
				}
			}
		})
	}
}

func TestMigrationFiles_EmptyDirectory(t *testing.T) {
	if _, err := migrationFiles(t.TempDir(), "up"); err == nil {
		t.Error("migrationFiles() on empty directory should fail")
	}
}

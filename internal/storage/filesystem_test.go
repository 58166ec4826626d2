package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "exports"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	path, err := store.Save(ctx, "2024/donations-20240201.zip", []byte("one"), false)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(dir, "exports", "2024", "donations-20240201.zip"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	if _, err := store.Save(ctx, "2024/donations-20240201.zip", []byte("two"), false); !errors.Is(err, ErrExists) {
		t.Fatalf("second save error = %v, want ErrExists", err)
	}
	if _, err := store.Save(ctx, "2024/donations-20240201.zip", []byte("two"), true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "two" {
		t.Fatalf("file contents = %q, %v", data, err)
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{"report.zip", "report.zip", false},
		{"/abs/report.zip", "abs/report.zip", false},
		{`a\b.zip`, "a/b.zip", false},
		{"a/../b.zip", "b.zip", false},
		{"../escape.zip", "", true},
		{"..", "", true},
		{"  ", "", true},
	}
	for _, tc := range tests {
		got, err := sanitizeKey(tc.key)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Fatalf("sanitizeKey(%q) = %q, %v", tc.key, got, err)
		}
	}
}

func TestSaveCanceled(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Save(ctx, "x.zip", nil, false); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

package debugdump

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taxpoint/ms_receipt_core/internal/testutil"
)

func TestCapture_WritesSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	sink := New(dir, testutil.NewNullLogger())

	sink.Capture(context.Background(), "https://suf.purs.gov.rs/v/?vl=token", "<html>broken</html>")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("snapshot directory was not created: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(entries))
	}

	name := entries[0].Name()
	if !strings.HasPrefix(name, "debug_") || !strings.HasSuffix(name, ".html") {
		t.Errorf("unexpected snapshot name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to read snapshot: %v", err)
	}
	if string(data) != "<html>broken</html>" {
		t.Errorf("unexpected snapshot content %q", data)
	}
}

func TestCapture_ConcurrentSnapshotsDoNotClobber(t *testing.T) {
	dir := t.TempDir()
	sink := New(dir, testutil.NewNullLogger())

	for i := 0; i < 5; i++ {
		sink.Capture(context.Background(), "https://example.com", "<html/>")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 5 {
		t.Errorf("expected 5 distinct snapshots, got %d", len(entries))
	}
}

func TestCapture_UnwritableDirectoryIsSwallowed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// dir path collides with an existing file; MkdirAll fails, Capture
	// must not panic or error out.
	sink := New(file, testutil.NewNullLogger())
	sink.Capture(context.Background(), "https://example.com", "<html/>")
}

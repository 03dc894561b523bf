// Package debugdump writes rendered-document snapshots to disk when a
// pipeline run fails, so layout changes can be diagnosed offline.
package debugdump

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"taxpoint/ms_receipt_core/internal/infrastructure/security"
)

// FileSink stores one HTML snapshot per failed run under a fixed
// directory. Snapshot names carry the date plus a random suffix so
// concurrent failures never clobber each other.
type FileSink struct {
	dir string
	log *slog.Logger
}

// New creates a FileSink rooted at dir. The directory is created lazily on
// first capture.
func New(dir string, log *slog.Logger) *FileSink {
	return &FileSink{dir: dir, log: log}
}

// Capture writes the snapshot. Failures are logged and swallowed: debug
// capture must never affect the outcome of the pipeline run that
// triggered it.
func (s *FileSink) Capture(_ context.Context, url, html string) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.log.Warn("debug capture directory unavailable", "dir", s.dir, "error", err)
		return
	}

	name := fmt.Sprintf("debug_%s_%s.html", time.Now().Format("2006-01-02"), uuid.NewString()[:8])
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		s.log.Warn("debug snapshot write failed", "path", path, "error", err)
		return
	}
	s.log.Info("debug snapshot written", "path", path, "url", security.SanitizeURL(url))
}

// Package pipeline sequences one receipt extraction run: acquire a
// rendered page, extract the raw fields, validate the domain model and
// convert it to the target contract. It is the only entry point external
// collaborators call.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"taxpoint/ms_receipt_core/internal/application/convert"
	"taxpoint/ms_receipt_core/internal/application/validate"
	"taxpoint/ms_receipt_core/internal/core/receipt"
	"taxpoint/ms_receipt_core/internal/core/target"
	"taxpoint/ms_receipt_core/internal/infrastructure/security"
)

// DebugCapture receives the raw rendered document when extraction or
// validation fails, for offline diagnosis. The pipeline itself persists
// nothing.
type DebugCapture interface {
	Capture(ctx context.Context, url, html string)
}

// Service runs the extraction pipeline. Runs share no mutable state and
// may execute concurrently; the only process-wide values handed in are the
// immutable code tables inside the validator.
type Service struct {
	renderer  receipt.Renderer
	extractor receipt.Extractor
	validator *validate.Validator
	converter *convert.Converter
	capture   DebugCapture // optional
	log       *slog.Logger
}

// NewService wires a pipeline. capture is optional; if nil, failed
// documents are not snapshotted.
func NewService(renderer receipt.Renderer, extractor receipt.Extractor, validator *validate.Validator, converter *convert.Converter, capture DebugCapture, log *slog.Logger) *Service {
	return &Service{
		renderer:  renderer,
		extractor: extractor,
		validator: validator,
		converter: converter,
		capture:   capture,
		log:       log,
	}
}

// Run executes one single-shot pipeline invocation for url. On success it
// returns the converted record; on failure it returns one of the four
// typed pipeline errors wrapped with the URL and elapsed time. The
// rendering-engine resource is released on every exit path, including
// cancellation. No retry happens here: a caller that wants one re-invokes
// Run as a fresh, fully isolated run.
func (s *Service) Run(ctx context.Context, url string) (*target.Record, error) {
	start := time.Now()
	safeURL := security.SanitizeURL(url)

	page, err := s.renderer.Acquire(ctx, url)
	if err != nil {
		s.log.Warn("page acquisition failed",
			"url", safeURL,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil, fmt.Errorf("acquire %s after %s: %w", url, time.Since(start).Round(time.Millisecond), err)
	}
	defer page.Close()

	raw, err := s.extractor.Extract(page.Content())
	if err != nil {
		s.snapshot(ctx, url, page.Content())
		var extractErr *receipt.ExtractionError
		if errors.As(err, &extractErr) {
			s.log.Error("extraction failed, portal layout may have changed",
				"url", safeURL,
				"missing_field", extractErr.Field,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
		}
		return nil, fmt.Errorf("extract %s after %s: %w", url, time.Since(start).Round(time.Millisecond), err)
	}

	src, err := s.validator.Validate(raw)
	if err != nil {
		s.snapshot(ctx, url, page.Content())
		var validationErr *receipt.ValidationError
		if errors.As(err, &validationErr) {
			s.log.Warn("receipt rejected by validation",
				"url", safeURL,
				"fields", validationErr.Fields(),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
		}
		return nil, fmt.Errorf("validate %s after %s: %w", url, time.Since(start).Round(time.Millisecond), err)
	}

	record := s.converter.Convert(src)
	s.log.Info("receipt converted",
		"url", safeURL,
		"record_id", record.ID,
		"items", len(src.Items),
		"total_minor", record.Ticket.Document.Receipt.TotalSum,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return record, nil
}

func (s *Service) snapshot(ctx context.Context, url, html string) {
	if s.capture == nil {
		return
	}
	s.capture.Capture(ctx, url, html)
}

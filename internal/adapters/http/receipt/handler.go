package receipt

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"taxpoint/ms_receipt_core/internal/core/target"
	httperrors "taxpoint/ms_receipt_core/internal/infrastructure/http"
	"taxpoint/ms_receipt_core/internal/infrastructure/security"
)

// Runner executes one extraction run for a verification URL.
type Runner interface {
	Run(ctx context.Context, url string) (*target.Record, error)
}

// Handler bridges HTTP traffic with the extraction pipeline.
type Handler struct {
	runner Runner
	log    *slog.Logger
}

func NewHandler(runner Runner, log *slog.Logger) *Handler {
	return &Handler{runner: runner, log: log}
}

type parseRequest struct {
	URL string `json:"url"`
}

// Parse runs the pipeline against the submitted verification URL and
// responds with a one-element array of converted records, matching the
// shape downstream consumers ingest.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	var body parseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Invalid request body", []string{"body must be a JSON object with a url field"}, h.log)
		return
	}

	rawURL := strings.TrimSpace(body.URL)
	if rawURL == "" {
		httperrors.WriteError(w, http.StatusBadRequest, "Invalid request body", []string{"url is required"}, h.log)
		return
	}
	if parsed, err := url.Parse(rawURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		httperrors.WriteError(w, http.StatusBadRequest, "Invalid request body", []string{"url must be absolute"}, h.log)
		return
	}

	// The query string carries the signed fiscal token; only the stripped
	// form ever reaches the logs.
	safeURL := security.SanitizeURL(rawURL)

	record, err := h.runner.Run(r.Context(), rawURL)
	if err != nil {
		status := httperrors.StatusForPipelineError(err)
		h.log.Warn("parse request failed", "url", safeURL, "status", status)
		httperrors.WriteError(w, status, "Receipt extraction failed", httperrors.DetailsForPipelineError(err), h.log)
		return
	}

	h.log.Info("parse request served", "url", safeURL, "record_id", record.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode([]*target.Record{record})
}

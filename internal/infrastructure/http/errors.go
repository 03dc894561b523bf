package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"taxpoint/ms_receipt_core/internal/core/receipt"
)

// ErrorResponse represents a standardized error response format.
type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// WriteError writes a standardized JSON error response to the HTTP response writer.
// It sets the appropriate Content-Type header, status code, and encodes the error response.
func WriteError(w http.ResponseWriter, statusCode int, message string, errs []string, log *slog.Logger) {
	response := ErrorResponse{
		Message: message,
		Errors:  errs,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// If encoding fails, log the error but don't try to write again
		// as the status code has already been written
		if log != nil {
			log.Error("failed to encode error response", "error", err)
		}
	}
}

// StatusForPipelineError maps the pipeline error taxonomy onto HTTP status
// codes:
//   - RenderTimeoutError: 504, the caller may retry with a fresh run
//   - ExtractionError:    502, the upstream portal layout changed
//   - ValidationError:    422, the receipt content is unprocessable
//   - NumberParseError:   422, same class of content failure
//
// Anything else is an internal error.
func StatusForPipelineError(err error) int {
	var (
		renderTimeout *receipt.RenderTimeoutError
		extraction    *receipt.ExtractionError
		validation    *receipt.ValidationError
		numberParse   *receipt.NumberParseError
	)
	switch {
	case errors.As(err, &renderTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &extraction):
		return http.StatusBadGateway
	case errors.As(err, &validation), errors.As(err, &numberParse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// DetailsForPipelineError flattens a pipeline error into the response
// error list. Validation failures list every offending field, per the
// one-pass diagnosis contract.
func DetailsForPipelineError(err error) []string {
	var validation *receipt.ValidationError
	if errors.As(err, &validation) {
		details := make([]string, 0, len(validation.Faults))
		for _, fault := range validation.Faults {
			details = append(details, fault.String())
		}
		return details
	}
	return []string{err.Error()}
}

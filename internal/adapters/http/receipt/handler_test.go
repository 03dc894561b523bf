package receipt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	corereceipt "taxpoint/ms_receipt_core/internal/core/receipt"
	"taxpoint/ms_receipt_core/internal/core/target"
	"taxpoint/ms_receipt_core/internal/testutil"
)

type mockRunner struct {
	RunFunc func(ctx context.Context, url string) (*target.Record, error)
}

func (m *mockRunner) Run(ctx context.Context, url string) (*target.Record, error) {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, url)
	}
	return &target.Record{}, nil
}

func TestParse_Success(t *testing.T) {
	var receivedURL string
	runner := &mockRunner{
		RunFunc: func(_ context.Context, url string) (*target.Record, error) {
			receivedURL = url
			return &target.Record{ID: "abc123", Ticket: target.Ticket{
				Document: target.Document{Receipt: target.Receipt{TotalSum: 18396}},
			}}, nil
		},
	}
	handler := NewHandler(runner, testutil.NewNullLogger())

	req := testutil.CreateRequest(http.MethodPost, "/api/v1/receipts/parse",
		map[string]string{"url": "https://suf.purs.gov.rs/v/?vl=token"}, nil)
	w := httptest.NewRecorder()

	handler.Parse(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if receivedURL != "https://suf.purs.gov.rs/v/?vl=token" {
		t.Errorf("expected the raw URL to reach the pipeline, got %q", receivedURL)
	}

	var records []target.Record
	testutil.ReadJSONResponse(t, w, &records)
	if len(records) != 1 {
		t.Fatalf("expected a one-element array, got %d elements", len(records))
	}
	if records[0].ID != "abc123" {
		t.Errorf("unexpected record id %q", records[0].ID)
	}
	if records[0].Ticket.Document.Receipt.TotalSum != 18396 {
		t.Errorf("unexpected total %d", records[0].Ticket.Document.Receipt.TotalSum)
	}
}

func TestParse_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "not json"},
		{name: "missing url", body: `{}`},
		{name: "blank url", body: `{"url":"   "}`},
		{name: "relative url", body: `{"url":"/v/?vl=token"}`},
	}

	handler := NewHandler(&mockRunner{}, testutil.NewNullLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts/parse", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.Parse(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestParse_PipelineErrorsMapToStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "render timeout",
			err:      fmt.Errorf("acquire: %w", &corereceipt.RenderTimeoutError{URL: "u", Timeout: 30 * time.Second}),
			expected: http.StatusGatewayTimeout,
		},
		{
			name:     "extraction failure",
			err:      fmt.Errorf("extract: %w", &corereceipt.ExtractionError{Field: corereceipt.FieldItems}),
			expected: http.StatusBadGateway,
		},
		{
			name: "validation failure",
			err: fmt.Errorf("validate: %w", &corereceipt.ValidationError{Faults: []corereceipt.FieldFault{
				{Field: corereceipt.FieldTotalAmount, Reason: "required field is empty"},
			}}),
			expected: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockRunner{
				RunFunc: func(_ context.Context, _ string) (*target.Record, error) {
					return nil, tt.err
				},
			}
			handler := NewHandler(runner, testutil.NewNullLogger())

			req := testutil.CreateRequest(http.MethodPost, "/api/v1/receipts/parse",
				map[string]string{"url": "https://suf.purs.gov.rs/v/?vl=token"}, nil)
			w := httptest.NewRecorder()

			handler.Parse(w, req)

			if w.Code != tt.expected {
				t.Errorf("expected status %d, got %d", tt.expected, w.Code)
			}
		})
	}
}

func TestParse_ValidationFaultsAreListedInResponse(t *testing.T) {
	runner := &mockRunner{
		RunFunc: func(_ context.Context, _ string) (*target.Record, error) {
			return nil, &corereceipt.ValidationError{Faults: []corereceipt.FieldFault{
				{Field: corereceipt.FieldTotalAmount, Reason: "required field is empty"},
				{Field: corereceipt.FieldTimestamp, Reason: "unparseable timestamp"},
			}}
		},
	}
	handler := NewHandler(runner, testutil.NewNullLogger())

	req := testutil.CreateRequest(http.MethodPost, "/api/v1/receipts/parse",
		map[string]string{"url": "https://suf.purs.gov.rs/v/?vl=token"}, nil)
	w := httptest.NewRecorder()

	handler.Parse(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}

	var response struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Errors) != 2 {
		t.Fatalf("expected both faults listed, got %v", response.Errors)
	}
	if response.Errors[0] != "total_amount: required field is empty" {
		t.Errorf("unexpected first error %q", response.Errors[0])
	}
}

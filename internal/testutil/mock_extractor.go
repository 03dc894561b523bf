package testutil

import (
	"taxpoint/ms_receipt_core/internal/core/receipt"
)

// MockExtractor is a mock implementation of receipt.Extractor for testing.
type MockExtractor struct {
	ExtractFunc func(html string) (receipt.RawFieldSet, error)
}

// Extract calls the mock function if set, otherwise returns an empty set.
func (m *MockExtractor) Extract(html string) (receipt.RawFieldSet, error) {
	if m.ExtractFunc != nil {
		return m.ExtractFunc(html)
	}
	return receipt.RawFieldSet{Fields: map[receipt.Field]string{}}, nil
}

package testutil

import (
	"context"
	"sync/atomic"

	"taxpoint/ms_receipt_core/internal/core/receipt"
)

// MockRenderer is a mock implementation of receipt.Renderer for testing.
type MockRenderer struct {
	AcquireFunc func(ctx context.Context, url string) (receipt.Page, error)
}

// Acquire calls the mock function if set, otherwise returns an empty page.
func (m *MockRenderer) Acquire(ctx context.Context, url string) (receipt.Page, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, url)
	}
	return &MockPage{}, nil
}

// MockPage is a receipt.Page backed by a fixed document. It counts Close
// calls so tests can assert the page is always released.
type MockPage struct {
	HTML       string
	CloseFunc  func() error
	closeCalls atomic.Int64
}

func (p *MockPage) Content() string {
	return p.HTML
}

func (p *MockPage) Close() error {
	p.closeCalls.Add(1)
	if p.CloseFunc != nil {
		return p.CloseFunc()
	}
	return nil
}

// CloseCalls reports how many times Close was invoked.
func (p *MockPage) CloseCalls() int {
	return int(p.closeCalls.Load())
}

package receipt

import "context"

// Page is one fully client-side-rendered document, held as a scoped
// resource. Close releases the underlying rendering engine and must be
// called on every exit path; it is safe to call more than once.
type Page interface {
	// Content returns the document HTML after client-side rendering.
	Content() string
	Close() error
}

// Renderer acquires a rendered document for a receipt URL. Each call starts
// a fresh, isolated rendering-engine instance; instances are never reused
// across requests.
type Renderer interface {
	Acquire(ctx context.Context, url string) (Page, error)
}

// Extractor maps rendered document HTML to the untyped raw field set.
type Extractor interface {
	Extract(html string) (RawFieldSet, error)
}

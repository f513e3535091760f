// Package document opens the PDF score that annotations are drawn on.
// Only the page structure is read; rasterising pages is left to the viewer.
package document

import (
	"fmt"
	"io"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// Score is an open PDF score.
type Score struct {
	Path  string
	r     *pdf.Reader
	pages int
}

// Open opens the named PDF file. Close must be called after use.
func Open(path string) (*Score, error) {
	r, err := pdf.Open(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open score %s: %w", path, err)
	}
	s, err := newScore(r)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("open score %s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// NewScore reads a PDF score from data.
func NewScore(data io.ReaderAt, size int64) (*Score, error) {
	r, err := pdf.NewReader(io.NewSectionReader(data, 0, size), nil)
	if err != nil {
		return nil, fmt.Errorf("read score: %w", err)
	}
	return newScore(r)
}

func newScore(r *pdf.Reader) (*Score, error) {
	n, err := pagetree.NumPages(r)
	if err != nil {
		return nil, fmt.Errorf("count pages: %w", err)
	}
	return &Score{r: r, pages: n}, nil
}

// Pages returns the number of pages.
func (s *Score) Pages() int { return s.pages }

// ClampPage limits page to the valid range. A score without pages clamps
// everything to 0.
func (s *Score) ClampPage(page int) int {
	return max(0, min(s.pages-1, page))
}

// Close releases the underlying file.
func (s *Score) Close() error {
	return s.r.Close()
}

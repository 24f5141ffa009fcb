package bizcard

import (
	"bytes"
	"fmt"
	"os"
	"sync"
)

// Template caches the first page size of the template PDF together with the
// bytes it was read from. Reload re-reads both, e.g. when the file changes on disk.
type Template struct {
	path string

	mu   sync.RWMutex
	data []byte
	page PageDimensions
}

func NewTemplate(path string) (*Template, error) {
	t := &Template{path: path}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Template) Path() string {
	return t.path
}

func (t *Template) Reload() error {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return fmt.Errorf("failed to open template: %w", err)
	}

	width, height, err := GetPdfPageSize(bytes.NewReader(data), 1)
	if err != nil {
		return fmt.Errorf("failed to read template page size: %w", err)
	}

	if err := ValidatePageGeometry(width, height); err != nil {
		return err
	}

	t.mu.Lock()
	t.data = data
	t.page = PageDimensions{Width: width, Height: height}
	t.mu.Unlock()

	return nil
}

func (t *Template) PageSize() PageDimensions {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.page
}

// WriteSnapshot writes the cached template to dst and returns the page size
// measured from those same bytes. The file at Path may have changed since.
func (t *Template) WriteSnapshot(dst string) (PageDimensions, error) {
	t.mu.RLock()
	data, page := t.data, t.page
	t.mu.RUnlock()

	if err := os.WriteFile(dst, data, 0644); err != nil {
		return PageDimensions{}, fmt.Errorf("failed to write template snapshot: %w", err)
	}
	return page, nil
}

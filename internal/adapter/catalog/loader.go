// Package catalog reads the static product list the journal sells from.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rl1809/pos-journal/internal/core/domain"
)

//go:embed default_catalog.json
var defaultCatalog []byte

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) (*domain.Catalog, error) {
	if path == "" {
		return Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

func Default() (*domain.Catalog, error) {
	return Parse(bytes.NewReader(defaultCatalog))
}

// Parse decodes a JSON array of catalog items. Unknown fields are rejected
// so typos in the file surface at startup.
func Parse(r io.Reader) (*domain.Catalog, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var items []domain.CatalogItem
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return domain.NewCatalog(items)
}

package store

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/MrBrian04/PapeleriaApp/domain"
)

// NewStore constructs a domain.ProductStore by kind: "memory" or "file".
// For the file store, provide the backing file path; for memory it is ignored.
func NewStore(kind, path string, log zerolog.Logger) (domain.ProductStore, error) {
	switch kind {
	case "memory", "mem":
		return NewInMemoryStore(), nil
	case "file":
		if path == "" {
			return nil, fmt.Errorf("file path required for file store")
		}
		return NewFileStore(path, log), nil
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
}

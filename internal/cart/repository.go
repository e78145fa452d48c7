package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/18Minahil/vanya-storefront/internal/domain"
)

// Repository persists the cart as one ordered blob of line items, mirroring
// the single key-value entry the browser storefront keeps in local storage.
type Repository interface {
	// Load returns the persisted lines. A missing blob is an empty cart,
	// not an error; ErrCorruptState reports an unreadable blob.
	Load() ([]domain.CartLine, error)
	// Save replaces the whole persisted collection.
	Save(lines []domain.CartLine) error
}

// ErrCorruptState reports that the persisted blob could not be decoded.
var ErrCorruptState = errors.New("cart repository: persisted state is corrupt")

// FileRepository stores the cart blob as a JSON file on disk.
type FileRepository struct {
	path string
}

// NewFileRepository constructs a repository writing to the given path.
func NewFileRepository(path string) (*FileRepository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("cart repository: path is required")
	}
	return &FileRepository{path: path}, nil
}

// Load reads and decodes the blob. Absence degrades to an empty cart.
func (r *FileRepository) Load() ([]domain.CartLine, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.CartLine{}, nil
		}
		return nil, fmt.Errorf("cart repository: read %s: %w", r.path, err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return lines, nil
}

// Save writes the full collection atomically: encode to a sibling temp file,
// then rename over the blob so readers never observe a partial write.
func (r *FileRepository) Save(lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("cart repository: encode: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cart repository: prepare %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*")
	if err != nil {
		return fmt.Errorf("cart repository: temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("cart repository: write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cart repository: close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("cart repository: replace %s: %w", r.path, err)
	}
	return nil
}

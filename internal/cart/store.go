// Package cart owns the locally persisted cart state.
package cart

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/18Minahil/vanya-storefront/internal/domain"
	"github.com/18Minahil/vanya-storefront/internal/media"
)

var (
	errRepositoryRequired = errors.New("cart store: repository is required")

	// ErrInvalidInput indicates the caller supplied an unusable product
	// or quantity.
	ErrInvalidInput = errors.New("cart store: invalid input")
	// ErrSelectionRequired indicates a mandatory variant choice is
	// missing or unknown; nothing is added.
	ErrSelectionRequired = errors.New("cart store: variant selection required")
	// ErrLineNotFound indicates no line matches the given identity.
	ErrLineNotFound = errors.New("cart store: line not found")
)

// PersistError reports that the updated cart could not be written. The
// in-memory state already carries the mutation and stays authoritative for
// the session; only durability is at risk.
type PersistError struct {
	err error
}

// Error implements the error interface.
func (e *PersistError) Error() string {
	return fmt.Sprintf("cart store: persist failed: %v", e.err)
}

// Unwrap returns the underlying write failure.
func (e *PersistError) Unwrap() error {
	return e.err
}

// IsPersistFailure reports whether err is a persistence write failure.
func IsPersistFailure(err error) bool {
	var pErr *PersistError
	return errors.As(err, &pErr)
}

// StoreDeps bundles constructor inputs for the cart store.
type StoreDeps struct {
	Repository  Repository
	Clock       func() time.Time
	Logger      *zap.Logger
	IDGenerator func() string
	// Placeholder overrides media.DefaultPlaceholder when set.
	Placeholder string
}

// Store keeps the cart lines in memory and mirrors every mutation to the
// repository as one whole-blob write. It is safe for concurrent use; the
// read-modify-write cycle is not protected across processes.
type Store struct {
	mu          sync.Mutex
	lines       []domain.CartLine
	repo        Repository
	now         func() time.Time
	logger      *zap.Logger
	newID       func() string
	placeholder string
}

// NewStore constructs the store and loads the persisted blob. Corrupt or
// unreadable state degrades to an empty cart rather than failing.
func NewStore(deps StoreDeps) (*Store, error) {
	if deps.Repository == nil {
		return nil, errRepositoryRequired
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}

	placeholder := strings.TrimSpace(deps.Placeholder)
	if placeholder == "" {
		placeholder = media.DefaultPlaceholder
	}

	store := &Store{
		repo:        deps.Repository,
		now:         func() time.Time { return clock().UTC() },
		logger:      logger,
		newID:       idGen,
		placeholder: placeholder,
	}

	lines, err := deps.Repository.Load()
	if err != nil {
		logger.Warn("cart state unreadable, starting empty", zap.Error(err))
		lines = []domain.CartLine{}
	}
	store.lines = sanitizeLines(lines)

	return store, nil
}

// AddCommand describes one add-to-cart action. ImageIndex is the gallery
// position the shopper was viewing; out-of-range values fall back to the
// default image.
type AddCommand struct {
	Product    domain.Product
	Quantity   int
	Size       string
	Color      string
	ImageIndex int
}

// Add merges the item into an existing line when the composite identity
// (product, size, color) matches, otherwise appends a new snapshot line.
// A returned *PersistError means the mutation is applied in memory but may
// not survive a restart.
func (s *Store) Add(cmd AddCommand) (domain.CartLine, error) {
	product := cmd.Product
	if product.ID <= 0 {
		return domain.CartLine{}, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if cmd.Quantity < 1 {
		return domain.CartLine{}, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if !product.InStock {
		return domain.CartLine{}, fmt.Errorf("%w: product %s is out of stock", ErrInvalidInput, product.Slug)
	}

	size, err := resolveVariant("size", cmd.Size, product.Sizes, true)
	if err != nil {
		return domain.CartLine{}, err
	}
	color, err := resolveVariant("color", cmd.Color, product.Colors, false)
	if err != nil {
		return domain.CartLine{}, err
	}

	key := domain.LineKey{ProductID: product.ID, Size: size, Color: color}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(key); idx >= 0 {
		s.lines[idx].Quantity += cmd.Quantity
		line := s.lines[idx]
		return line, s.persistLocked()
	}

	line := domain.CartLine{
		ID:        s.newID(),
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Slug:      product.Slug,
		Quantity:  cmd.Quantity,
		Size:      size,
		Color:     color,
		Image:     s.snapshotImage(product, cmd.ImageIndex),
		AddedAt:   s.now(),
	}
	s.lines = append(s.lines, line)
	return line, s.persistLocked()
}

// SetQuantity replaces the line's quantity, clamping values below 1 to 1.
// Removal is a distinct action; quantities never reach zero here.
func (s *Store) SetQuantity(key domain.LineKey, quantity int) (domain.CartLine, error) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(key)
	if idx < 0 {
		return domain.CartLine{}, ErrLineNotFound
	}
	s.lines[idx].Quantity = quantity
	line := s.lines[idx]
	return line, s.persistLocked()
}

// Remove drops the line with the given identity.
func (s *Store) Remove(key domain.LineKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(key)
	if idx < 0 {
		return ErrLineNotFound
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	return s.persistLocked()
}

// FindByID resolves a line by its opaque identifier.
func (s *Store) FindByID(lineID string) (domain.CartLine, bool) {
	lineID = strings.TrimSpace(lineID)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.lines {
		if line.ID == lineID {
			return line, true
		}
	}
	return domain.CartLine{}, false
}

// Clear destroys the whole collection.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = []domain.CartLine{}
	return s.persistLocked()
}

// Lines returns a copy of the current lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]domain.CartLine, len(s.lines))
	copy(lines, s.lines)
	return lines
}

// Totals sums price by quantity across lines.
func (s *Store) Totals() domain.CartTotals {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := domain.CartTotals{LineCount: len(s.lines)}
	for _, line := range s.lines {
		totals.Subtotal += line.Price * float64(line.Quantity)
		totals.UnitCount += line.Quantity
	}
	return totals
}

func (s *Store) indexOf(key domain.LineKey) int {
	for i, line := range s.lines {
		if line.Key() == key {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked() error {
	snapshot := make([]domain.CartLine, len(s.lines))
	copy(snapshot, s.lines)

	if err := s.repo.Save(snapshot); err != nil {
		s.logger.Warn("cart persist failed, in-memory state retained", zap.Error(err))
		return &PersistError{err: err}
	}
	return nil
}

func (s *Store) snapshotImage(product domain.Product, index int) string {
	var image *domain.ProductImage
	if len(product.Images) > 0 {
		if index < 0 || index >= len(product.Images) {
			index = 0
		}
		image = &product.Images[index]
	}
	return media.Resolve(image, media.CartSizes, s.placeholder)
}

// resolveVariant validates one variant dimension. A dimension with no
// options always resolves to the empty identity. Size is mandatory when
// options exist; color tolerates absence because the storefront pre-selects
// the first swatch only in the UI layer.
func resolveVariant(dimension, value string, options []string, required bool) (string, error) {
	value = strings.TrimSpace(value)
	if len(options) == 0 {
		return "", nil
	}
	if value == "" {
		if required {
			return "", fmt.Errorf("%w: %s must be selected", ErrSelectionRequired, dimension)
		}
		return "", nil
	}
	for _, option := range options {
		if strings.TrimSpace(option) == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: %s %q is not offered", ErrSelectionRequired, dimension, value)
}

func sanitizeLines(lines []domain.CartLine) []domain.CartLine {
	result := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.ProductID <= 0 {
			continue
		}
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		line.Size = strings.TrimSpace(line.Size)
		line.Color = strings.TrimSpace(line.Color)
		result = append(result, line)
	}
	return result
}

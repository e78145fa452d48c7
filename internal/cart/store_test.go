package cart

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/18Minahil/vanya-storefront/internal/domain"
	"github.com/18Minahil/vanya-storefront/internal/media"
)

type stubRepository struct {
	lines   []domain.CartLine
	loadErr error
	saveErr error
	saves   int
}

func (r *stubRepository) Load() ([]domain.CartLine, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.lines, nil
}

func (r *stubRepository) Save(lines []domain.CartLine) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.lines = lines
	return nil
}

func sizedProduct() domain.Product {
	return domain.Product{
		ID:      7,
		Name:    "Silk Kurta",
		Slug:    "silk-kurta",
		Price:   129,
		InStock: true,
		Sizes:   []string{"S", "M"},
		Colors:  []string{"ivory", "black"},
		Images: []domain.ProductImage{
			{
				URL: "https://cdn.example.com/front.jpg",
				Formats: domain.ImageFormats{
					Medium: &domain.ImageVariant{URL: "https://cdn.example.com/front-md.jpg"},
				},
			},
			{URL: "https://cdn.example.com/back.jpg"},
		},
	}
}

func newTestStore(t *testing.T, repo Repository) *Store {
	t.Helper()
	counter := 0
	store, err := NewStore(StoreDeps{
		Repository: repo,
		Clock:      func() time.Time { return time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC) },
		IDGenerator: func() string {
			counter++
			return fmt.Sprintf("line-%03d", counter)
		},
	})
	if err != nil {
		t.Fatalf("unexpected error constructing store: %v", err)
	}
	return store
}

func TestNewStore(t *testing.T) {
	t.Run("requires a repository", func(t *testing.T) {
		if _, err := NewStore(StoreDeps{}); err == nil {
			t.Fatal("expected error for missing repository")
		}
	})

	t.Run("corrupt state degrades to an empty cart", func(t *testing.T) {
		store := newTestStore(t, &stubRepository{loadErr: ErrCorruptState})
		if lines := store.Lines(); len(lines) != 0 {
			t.Fatalf("expected empty cart, got %d lines", len(lines))
		}
	})

	t.Run("persisted quantities below one are clamped", func(t *testing.T) {
		repo := &stubRepository{lines: []domain.CartLine{{ID: "l1", ProductID: 7, Quantity: 0}}}
		store := newTestStore(t, repo)
		if got := store.Lines()[0].Quantity; got != 1 {
			t.Fatalf("expected clamped quantity 1, got %d", got)
		}
	})
}

func TestStoreAdd(t *testing.T) {
	t.Run("same identity merges into one line", func(t *testing.T) {
		repo := &stubRepository{}
		store := newTestStore(t, repo)

		if _, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 1, Size: "M", Color: "ivory"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		line, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 2, Size: "M", Color: "ivory"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := store.Lines()
		if len(lines) != 1 {
			t.Fatalf("expected one merged line, got %d", len(lines))
		}
		if line.Quantity != 3 {
			t.Fatalf("expected merged quantity 3, got %d", line.Quantity)
		}
	})

	t.Run("different variant identity appends", func(t *testing.T) {
		store := newTestStore(t, &stubRepository{})

		if _, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 1, Size: "S", Color: "ivory"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 1, Size: "M", Color: "ivory"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if lines := store.Lines(); len(lines) != 2 {
			t.Fatalf("expected two lines for distinct sizes, got %d", len(lines))
		}
	})

	t.Run("missing mandatory size rejects without mutation", func(t *testing.T) {
		repo := &stubRepository{}
		store := newTestStore(t, repo)

		_, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 1})
		if !errors.Is(err, ErrSelectionRequired) {
			t.Fatalf("expected ErrSelectionRequired, got %v", err)
		}
		if len(store.Lines()) != 0 {
			t.Fatal("cart must stay unchanged after a rejected add")
		}
		if repo.saves != 0 {
			t.Fatal("rejected add must not persist")
		}
	})

	t.Run("unknown size is rejected", func(t *testing.T) {
		store := newTestStore(t, &stubRepository{})
		_, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 1, Size: "XXL"})
		if !errors.Is(err, ErrSelectionRequired) {
			t.Fatalf("expected ErrSelectionRequired, got %v", err)
		}
	})

	t.Run("unknown color is rejected but absent color is tolerated", func(t *testing.T) {
		store := newTestStore(t, &stubRepository{})

		if _, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 1, Size: "S", Color: "chartreuse"}); !errors.Is(err, ErrSelectionRequired) {
			t.Fatalf("expected ErrSelectionRequired for unknown color, got %v", err)
		}

		line, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 1, Size: "S"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line.Color != "" {
			t.Fatalf("expected empty color identity, got %q", line.Color)
		}
	})

	t.Run("rejects invalid quantity and out-of-stock product", func(t *testing.T) {
		store := newTestStore(t, &stubRepository{})

		if _, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 0, Size: "S"}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for zero quantity, got %v", err)
		}

		soldOut := sizedProduct()
		soldOut.InStock = false
		if _, err := store.Add(AddCommand{Product: soldOut, Quantity: 1, Size: "S"}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for out-of-stock product, got %v", err)
		}
	})

	t.Run("snapshots the viewed image with cart priority", func(t *testing.T) {
		store := newTestStore(t, &stubRepository{})

		line, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 1, Size: "S", ImageIndex: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line.Image != "https://cdn.example.com/back.jpg" {
			t.Fatalf("expected the viewed image snapshot, got %q", line.Image)
		}
	})

	t.Run("out-of-range image index falls back to the default image", func(t *testing.T) {
		store := newTestStore(t, &stubRepository{})

		line, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 1, Size: "S", ImageIndex: 9})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line.Image != "https://cdn.example.com/front-md.jpg" {
			t.Fatalf("expected default image medium rendition, got %q", line.Image)
		}
	})

	t.Run("imageless product snapshots the placeholder", func(t *testing.T) {
		store := newTestStore(t, &stubRepository{})

		bare := sizedProduct()
		bare.Images = nil
		line, err := store.Add(AddCommand{Product: bare, Quantity: 1, Size: "S"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line.Image != media.DefaultPlaceholder {
			t.Fatalf("expected placeholder, got %q", line.Image)
		}
	})

	t.Run("snapshot is not refreshed on merge", func(t *testing.T) {
		store := newTestStore(t, &stubRepository{})

		if _, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 1, Size: "S"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		repriced := sizedProduct()
		repriced.Price = 999
		repriced.Name = "Renamed"
		line, err := store.Add(AddCommand{Product: repriced, Quantity: 1, Size: "S"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line.Price != 129 || line.Name != "Silk Kurta" {
			t.Fatalf("snapshot fields must stay frozen, got %+v", line)
		}
	})
}

func TestStoreQuantityAndRemoval(t *testing.T) {
	key := domain.LineKey{ProductID: 7, Size: "S"}

	setup := func(t *testing.T) *Store {
		store := newTestStore(t, &stubRepository{})
		if _, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 2, Size: "S"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return store
	}

	t.Run("set quantity clamps to one", func(t *testing.T) {
		store := setup(t)
		line, err := store.SetQuantity(key, -3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if line.Quantity != 1 {
			t.Fatalf("expected clamped quantity 1, got %d", line.Quantity)
		}
	})

	t.Run("set quantity on unknown identity fails", func(t *testing.T) {
		store := setup(t)
		if _, err := store.SetQuantity(domain.LineKey{ProductID: 99}, 2); !errors.Is(err, ErrLineNotFound) {
			t.Fatalf("expected ErrLineNotFound, got %v", err)
		}
	})

	t.Run("remove drops the line", func(t *testing.T) {
		store := setup(t)
		if err := store.Remove(key); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(store.Lines()) != 0 {
			t.Fatal("expected an empty cart after removal")
		}
		if err := store.Remove(key); !errors.Is(err, ErrLineNotFound) {
			t.Fatalf("expected ErrLineNotFound on repeat removal, got %v", err)
		}
	})

	t.Run("clear empties the collection", func(t *testing.T) {
		store := setup(t)
		if err := store.Clear(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(store.Lines()) != 0 {
			t.Fatal("expected an empty cart after clear")
		}
	})

	t.Run("find by id resolves the opaque handle", func(t *testing.T) {
		store := setup(t)
		want := store.Lines()[0]
		got, ok := store.FindByID(want.ID)
		if !ok || got.Key() != want.Key() {
			t.Fatalf("FindByID(%q) = %+v, %v", want.ID, got, ok)
		}
		if _, ok := store.FindByID("missing"); ok {
			t.Fatal("expected miss for unknown id")
		}
	})
}

func TestStoreTotals(t *testing.T) {
	store := newTestStore(t, &stubRepository{})

	if _, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 2, Size: "S"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := sizedProduct()
	other.ID = 8
	other.Price = 50
	other.Sizes = nil
	other.Colors = nil
	if _, err := store.Add(AddCommand{Product: other, Quantity: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	totals := store.Totals()
	if totals.Subtotal != 129*2+50 {
		t.Fatalf("unexpected subtotal %v", totals.Subtotal)
	}
	if totals.LineCount != 2 || totals.UnitCount != 3 {
		t.Fatalf("unexpected counts %+v", totals)
	}
}

func TestStorePersistFailureKeepsMemoryState(t *testing.T) {
	repo := &stubRepository{saveErr: errors.New("disk full")}
	store := newTestStore(t, repo)

	line, err := store.Add(AddCommand{Product: sizedProduct(), Quantity: 1, Size: "S"})
	if !IsPersistFailure(err) {
		t.Fatalf("expected persist failure, got %v", err)
	}
	if line.ProductID != 7 {
		t.Fatalf("expected the applied line back, got %+v", line)
	}
	if len(store.Lines()) != 1 {
		t.Fatal("in-memory state must keep the mutation after a persist failure")
	}
}

package catalog

import (
	"reflect"
	"testing"

	"github.com/18Minahil/vanya-storefront/internal/domain"
)

func sampleCollection() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Linen Shirt", Slug: "linen-shirt", Category: "SUMMER COLLECTION", Price: 80},
		{ID: 2, Name: "Wool Coat", Slug: "wool-coat", Category: "WINTER COLLECTION", Price: 240},
		{ID: 3, Name: "Satin Dress", Slug: "satin-dress", Category: "SPRING COLLECTION", Price: 150},
		{ID: 4, Name: "Denim Jacket", Slug: "denim-jacket", Category: "SPRING COLLECTION", Price: 110},
	}
}

func slugs(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Slug
	}
	return out
}

func TestQueryApply(t *testing.T) {
	cases := []struct {
		name  string
		query Query
		want  []string
	}{
		{
			name:  "empty query keeps fetch order",
			query: Query{},
			want:  []string{"linen-shirt", "wool-coat", "satin-dress", "denim-jacket"},
		},
		{
			name:  "search is case insensitive",
			query: Query{Search: "wOOl"},
			want:  []string{"wool-coat"},
		},
		{
			name:  "category filter is exact",
			query: Query{Category: "SPRING COLLECTION"},
			want:  []string{"satin-dress", "denim-jacket"},
		},
		{
			name:  "ALL sentinel disables the category filter",
			query: Query{Category: domain.CategoryAll},
			want:  []string{"linen-shirt", "wool-coat", "satin-dress", "denim-jacket"},
		},
		{
			name:  "price ascending",
			query: Query{Sort: domain.SortPriceLow},
			want:  []string{"linen-shirt", "denim-jacket", "satin-dress", "wool-coat"},
		},
		{
			name:  "price descending",
			query: Query{Sort: domain.SortPriceHigh},
			want:  []string{"wool-coat", "satin-dress", "denim-jacket", "linen-shirt"},
		},
		{
			name:  "search then category then sort",
			query: Query{Search: "s", Category: "SPRING COLLECTION", Sort: domain.SortPriceLow},
			want:  []string{"satin-dress"},
		},
		{
			name:  "search with no match",
			query: Query{Search: "does-not-exist"},
			want:  []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			source := sampleCollection()
			got := slugs(tc.query.Apply(source))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Apply returned %v, want %v", got, tc.want)
			}
		})
	}
}

func TestQueryApplyNeverMutatesSource(t *testing.T) {
	source := sampleCollection()
	original := slugs(source)

	Query{Sort: domain.SortPriceHigh}.Apply(source)

	if got := slugs(source); !reflect.DeepEqual(got, original) {
		t.Fatalf("source order changed: %v, want %v", got, original)
	}
}

func TestQueryApplyIsIdempotent(t *testing.T) {
	source := sampleCollection()
	query := Query{Search: "s", Sort: domain.SortPriceLow}

	first := query.Apply(source)
	second := query.Apply(source)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated application diverged: %v vs %v", slugs(first), slugs(second))
	}
}

func TestQuerySortSymmetry(t *testing.T) {
	source := sampleCollection()

	low := slugs(Query{Sort: domain.SortPriceLow}.Apply(source))
	high := slugs(Query{Sort: domain.SortPriceHigh}.Apply(source))

	for i := range low {
		if low[i] != high[len(high)-1-i] {
			t.Fatalf("ascending order %v is not the reverse of descending order %v", low, high)
		}
	}
}

func TestQueryStableDefaultSortWithEqualPrices(t *testing.T) {
	source := []domain.Product{
		{ID: 1, Name: "A", Slug: "a", Price: 50},
		{ID: 2, Name: "B", Slug: "b", Price: 50},
		{ID: 3, Name: "C", Slug: "c", Price: 50},
	}

	got := slugs(Query{Sort: domain.SortPriceLow}.Apply(source))
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("equal-price sort must be stable, got %v", got)
	}
}

func TestParseSortKey(t *testing.T) {
	cases := map[string]domain.SortKey{
		"price-low":  domain.SortPriceLow,
		"price-high": domain.SortPriceHigh,
		"featured":   domain.SortFeatured,
		"":           domain.SortFeatured,
		"garbage":    domain.SortFeatured,
	}
	for input, want := range cases {
		if got := ParseSortKey(input); got != want {
			t.Fatalf("ParseSortKey(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestQueryCount(t *testing.T) {
	source := sampleCollection()
	if got := (Query{Category: "SPRING COLLECTION"}).Count(source); got != 2 {
		t.Fatalf("Count returned %d, want 2", got)
	}
}

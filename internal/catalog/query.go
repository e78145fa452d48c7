package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/18Minahil/vanya-storefront/internal/domain"
)

var searchFolder = cases.Fold()

// Query applies the listing page state to a fetched collection. It is a pure
// transformation: the source slice is never reordered or mutated.
type Query struct {
	// Search matches case-insensitively as a substring of the product
	// name; empty matches everything.
	Search string
	// Category must equal the product category exactly;
	// domain.CategoryAll (or empty) disables the filter.
	Category string
	// Sort selects the price ordering; SortFeatured keeps fetch order.
	Sort domain.SortKey
}

// QueryFromState converts the page session state into an applicable Query.
func QueryFromState(state domain.CatalogQuery) Query {
	return Query{
		Search:   state.Search,
		Category: state.Category,
		Sort:     state.Sort,
	}
}

// ParseSortKey maps a request value onto a known sort key, defaulting to the
// featured (fetch) order for anything unrecognised.
func ParseSortKey(value string) domain.SortKey {
	switch domain.SortKey(strings.TrimSpace(value)) {
	case domain.SortPriceLow:
		return domain.SortPriceLow
	case domain.SortPriceHigh:
		return domain.SortPriceHigh
	default:
		return domain.SortFeatured
	}
}

// Apply filters by search term, then by category, then sorts. The
// composition order is fixed; changing it would change displayed counts.
func (q Query) Apply(products []domain.Product) []domain.Product {
	result := make([]domain.Product, 0, len(products))

	term := searchFolder.String(strings.TrimSpace(q.Search))
	category := strings.TrimSpace(q.Category)
	filterCategory := category != "" && category != domain.CategoryAll

	for _, product := range products {
		if term != "" && !strings.Contains(searchFolder.String(product.Name), term) {
			continue
		}
		if filterCategory && product.Category != category {
			continue
		}
		result = append(result, product)
	}

	switch q.Sort {
	case domain.SortPriceLow:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price < result[j].Price
		})
	case domain.SortPriceHigh:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price > result[j].Price
		})
	}

	return result
}

// Count returns the number of products the query leaves visible.
func (q Query) Count(products []domain.Product) int {
	return len(q.Apply(products))
}

package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/18Minahil/vanya-storefront/internal/catalog"
	"github.com/18Minahil/vanya-storefront/internal/domain"
	"github.com/18Minahil/vanya-storefront/internal/media"
	"github.com/18Minahil/vanya-storefront/internal/platform/httpx"
)

// CatalogService fetches products from the upstream CMS.
type CatalogService interface {
	FetchCollection(ctx context.Context) ([]domain.Product, error)
	FetchBySlug(ctx context.Context, slug string) (domain.Product, error)
	FetchRecommendations(ctx context.Context, excludeSlug string, limit int) ([]domain.Product, error)
}

// CatalogHandlers serves the product listing and detail view models.
type CatalogHandlers struct {
	catalog        CatalogService
	logger         *zap.Logger
	placeholder    string
	recommendLimit int
}

// CatalogHandlersDeps carries the dependencies for NewCatalogHandlers.
type CatalogHandlersDeps struct {
	Catalog        CatalogService
	Logger         *zap.Logger
	Placeholder    string
	RecommendLimit int
}

const defaultRecommendLimit = 4

// NewCatalogHandlers constructs the catalog handler set.
func NewCatalogHandlers(deps CatalogHandlersDeps) *CatalogHandlers {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	placeholder := strings.TrimSpace(deps.Placeholder)
	if placeholder == "" {
		placeholder = media.DefaultPlaceholder
	}
	limit := deps.RecommendLimit
	if limit <= 0 {
		limit = defaultRecommendLimit
	}
	return &CatalogHandlers{
		catalog:        deps.Catalog,
		logger:         logger,
		placeholder:    placeholder,
		recommendLimit: limit,
	}
}

// Routes wires the product endpoints onto the provided router.
func (h *CatalogHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/products", h.listProducts)
	r.Get("/products/{slug}", h.getProduct)
}

type productCard struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
	Discounted    bool    `json:"discounted"`
	InStock       bool    `json:"inStock"`
	Image         string  `json:"image"`
}

type listResponse struct {
	Items      []productCard `json:"items"`
	Count      int           `json:"count"`
	Categories []string      `json:"categories"`
	SortKeys   []string      `json:"sortKeys"`
}

type productDetail struct {
	productCard
	Images      []string `json:"images"`
	Thumbnails  []string `json:"thumbnails"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
	Description string   `json:"description,omitempty"`
	Material    string   `json:"material,omitempty"`
	Care        []string `json:"care,omitempty"`
}

type detailResponse struct {
	Product         productDetail `json:"product"`
	Recommendations []productCard `json:"recommendations"`
}

func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	products, err := h.catalog.FetchCollection(ctx)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}

	query := catalog.Query{
		Search:   r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
		Sort:     catalog.ParseSortKey(r.URL.Query().Get("sort")),
	}
	filtered := query.Apply(products)

	items := make([]productCard, 0, len(filtered))
	for _, product := range filtered {
		items = append(items, h.card(product, media.ListingSizes))
	}

	writeJSONResponse(w, http.StatusOK, listResponse{
		Items:      items,
		Count:      len(items),
		Categories: categoryOptions(products),
		SortKeys: []string{
			string(domain.SortFeatured),
			string(domain.SortPriceLow),
			string(domain.SortPriceHigh),
		},
	})
}

func (h *CatalogHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}

	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product slug is required", http.StatusBadRequest))
		return
	}

	var (
		wg         sync.WaitGroup
		product    domain.Product
		productErr error
		recs       []domain.Product
		recsErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		product, productErr = h.catalog.FetchBySlug(ctx, slug)
	}()
	go func() {
		defer wg.Done()
		recs, recsErr = h.catalog.FetchRecommendations(ctx, slug, h.recommendLimit)
	}()
	wg.Wait()

	if productErr != nil {
		h.writeCatalogError(ctx, w, productErr)
		return
	}
	if recsErr != nil {
		// The detail page is still useful without the rail.
		h.logger.Warn("recommendations fetch failed", zap.String("slug", slug), zap.Error(recsErr))
		recs = nil
	}

	cards := make([]productCard, 0, len(recs))
	for _, rec := range recs {
		cards = append(cards, h.card(rec, media.ThumbSizes))
	}

	writeJSONResponse(w, http.StatusOK, detailResponse{
		Product:         h.detail(product),
		Recommendations: cards,
	})
}

func (h *CatalogHandlers) card(product domain.Product, sizes []media.Size) productCard {
	var image *domain.ProductImage
	if len(product.Images) > 0 {
		image = &product.Images[0]
	}
	return productCard{
		ID:            product.ID,
		Name:          product.Name,
		Slug:          product.Slug,
		Category:      product.Category,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		Discounted:    product.Discounted(),
		InStock:       product.InStock,
		Image:         media.Resolve(image, sizes, h.placeholder),
	}
}

func (h *CatalogHandlers) detail(product domain.Product) productDetail {
	images := make([]string, 0, len(product.Images))
	thumbs := make([]string, 0, len(product.Images))
	for i := range product.Images {
		images = append(images, media.Resolve(&product.Images[i], media.DetailSizes, h.placeholder))
		thumbs = append(thumbs, media.Resolve(&product.Images[i], media.ThumbSizes, h.placeholder))
	}
	if len(images) == 0 {
		images = append(images, h.placeholder)
		thumbs = append(thumbs, h.placeholder)
	}
	return productDetail{
		productCard: h.card(product, media.DetailSizes),
		Images:      images,
		Thumbnails:  thumbs,
		Sizes:       product.Sizes,
		Colors:      product.Colors,
		Description: product.Description,
		Material:    product.Material,
		Care:        product.Care,
	}
}

func (h *CatalogHandlers) writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case catalog.IsNotFound(err):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case catalog.IsFetchFailure(err):
		h.logger.Warn("catalog fetch failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("catalog_upstream_error", "catalog is temporarily unavailable", http.StatusBadGateway))
	default:
		h.logger.Error("catalog request failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "internal error", http.StatusInternalServerError))
	}
}

func categoryOptions(products []domain.Product) []string {
	options := []string{domain.CategoryAll}
	seen := make(map[string]struct{})
	for _, product := range products {
		if product.Category == "" {
			continue
		}
		if _, ok := seen[product.Category]; ok {
			continue
		}
		seen[product.Category] = struct{}{}
		options = append(options, product.Category)
	}
	return options
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/18Minahil/vanya-storefront/internal/cart"
	"github.com/18Minahil/vanya-storefront/internal/catalog"
	"github.com/18Minahil/vanya-storefront/internal/domain"
	"github.com/18Minahil/vanya-storefront/internal/platform/httpx"
)

// CartService mutates and reads the persistent cart.
type CartService interface {
	Add(cmd cart.AddCommand) (domain.CartLine, error)
	SetQuantity(key domain.LineKey, quantity int) (domain.CartLine, error)
	Remove(key domain.LineKey) error
	FindByID(lineID string) (domain.CartLine, bool)
	Clear() error
	Lines() []domain.CartLine
	Totals() domain.CartTotals
}

// CartHandlers exposes the cart endpoints. Add resolves the product through
// the catalog so the stored line snapshots current price and imagery.
type CartHandlers struct {
	carts   CartService
	catalog CatalogService
	logger  *zap.Logger
}

const maxCartBodySize = 16 * 1024

// NewCartHandlers constructs the cart handler set.
func NewCartHandlers(carts CartService, catalogSvc CatalogService, logger *zap.Logger) *CartHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandlers{carts: carts, catalog: catalogSvc, logger: logger}
}

// Routes wires the /cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCart)
	r.Delete("/", h.clearCart)
	r.Post("/items", h.addItem)
	r.Patch("/items/{lineID}", h.updateItem)
	r.Delete("/items/{lineID}", h.removeItem)
}

type cartLinePayload struct {
	LineID   string  `json:"lineId"`
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
	Image    string  `json:"image"`
}

type cartResponse struct {
	Lines     []cartLinePayload `json:"lines"`
	Subtotal  float64           `json:"subtotal"`
	LineCount int               `json:"lineCount"`
	UnitCount int               `json:"unitCount"`
	Persisted bool              `json:"persisted"`
}

type addItemRequest struct {
	Slug       string `json:"slug"`
	Quantity   int    `json:"quantity"`
	Size       string `json:"size"`
	Color      string `json:"color"`
	ImageIndex int    `json:"imageIndex"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}
	writeJSONResponse(w, http.StatusOK, h.buildCartResponse(true))
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil || h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		h.writeBodyError(ctx, w, err)
		return
	}
	var req addItemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "slug is required", http.StatusBadRequest))
		return
	}

	product, err := h.catalog.FetchBySlug(ctx, slug)
	if err != nil {
		h.writeCatalogLookupError(ctx, w, err)
		return
	}

	// The detail page pre-selects the first swatch; mirror that default so
	// a bare add on a multi-colour product still lands on a stable line key.
	color := strings.TrimSpace(req.Color)
	if color == "" && len(product.Colors) > 0 {
		color = product.Colors[0]
	}

	line, err := h.carts.Add(cart.AddCommand{
		Product:    product,
		Quantity:   req.Quantity,
		Size:       req.Size,
		Color:      color,
		ImageIndex: req.ImageIndex,
	})
	if err != nil && !cart.IsPersistFailure(err) {
		h.writeCartError(ctx, w, err)
		return
	}

	persisted := err == nil
	if !persisted {
		h.logger.Warn("cart persisted state is stale", zap.Error(err))
	}
	payload := h.buildCartResponse(persisted)
	writeJSONResponse(w, http.StatusCreated, struct {
		Line cartLinePayload `json:"line"`
		cartResponse
	}{Line: buildLinePayload(line), cartResponse: payload})
}

func (h *CartHandlers) updateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	line, ok := h.findLine(r)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("line_not_found", "cart line not found", http.StatusNotFound))
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		h.writeBodyError(ctx, w, err)
		return
	}
	var req updateItemRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	updated, err := h.carts.SetQuantity(line.Key(), req.Quantity)
	if err != nil && !cart.IsPersistFailure(err) {
		h.writeCartError(ctx, w, err)
		return
	}
	persisted := err == nil
	if !persisted {
		h.logger.Warn("cart persisted state is stale", zap.Error(err))
	}
	payload := h.buildCartResponse(persisted)
	writeJSONResponse(w, http.StatusOK, struct {
		Line cartLinePayload `json:"line"`
		cartResponse
	}{Line: buildLinePayload(updated), cartResponse: payload})
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	line, ok := h.findLine(r)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("line_not_found", "cart line not found", http.StatusNotFound))
		return
	}

	err := h.carts.Remove(line.Key())
	if err != nil && !cart.IsPersistFailure(err) {
		h.writeCartError(ctx, w, err)
		return
	}
	persisted := err == nil
	if !persisted {
		h.logger.Warn("cart persisted state is stale", zap.Error(err))
	}
	writeJSONResponse(w, http.StatusOK, h.buildCartResponse(persisted))
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return
	}

	err := h.carts.Clear()
	if err != nil && !cart.IsPersistFailure(err) {
		h.writeCartError(ctx, w, err)
		return
	}
	persisted := err == nil
	if !persisted {
		h.logger.Warn("cart persisted state is stale", zap.Error(err))
	}
	writeJSONResponse(w, http.StatusOK, h.buildCartResponse(persisted))
}

func (h *CartHandlers) findLine(r *http.Request) (domain.CartLine, bool) {
	lineID := strings.TrimSpace(chi.URLParam(r, "lineID"))
	if lineID == "" {
		return domain.CartLine{}, false
	}
	return h.carts.FindByID(lineID)
}

func (h *CartHandlers) buildCartResponse(persisted bool) cartResponse {
	lines := h.carts.Lines()
	totals := h.carts.Totals()
	payload := cartResponse{
		Lines:     make([]cartLinePayload, 0, len(lines)),
		Subtotal:  totals.Subtotal,
		LineCount: totals.LineCount,
		UnitCount: totals.UnitCount,
		Persisted: persisted,
	}
	for _, line := range lines {
		payload.Lines = append(payload.Lines, buildLinePayload(line))
	}
	return payload
}

func buildLinePayload(line domain.CartLine) cartLinePayload {
	return cartLinePayload{
		LineID:   line.ID,
		ID:       line.ProductID,
		Name:     line.Name,
		Slug:     line.Slug,
		Price:    line.Price,
		Quantity: line.Quantity,
		Size:     line.Size,
		Color:    line.Color,
		Image:    line.Image,
	}
}

func (h *CartHandlers) writeBodyError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBodyTooLarge):
		httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	}
}

func (h *CartHandlers) writeCartError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrSelectionRequired):
		httpx.WriteError(ctx, w, httpx.NewError("selection_required", err.Error(), http.StatusUnprocessableEntity))
	case errors.Is(err, cart.ErrInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, cart.ErrLineNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("line_not_found", "cart line not found", http.StatusNotFound))
	default:
		h.logger.Error("cart request failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "internal error", http.StatusInternalServerError))
	}
}

func (h *CartHandlers) writeCatalogLookupError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case catalog.IsNotFound(err):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case catalog.IsFetchFailure(err):
		h.logger.Warn("catalog fetch failed during add", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("catalog_upstream_error", "catalog is temporarily unavailable", http.StatusBadGateway))
	default:
		h.logger.Error("catalog lookup failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "internal error", http.StatusInternalServerError))
	}
}

package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/18Minahil/vanya-storefront/internal/carousel"
	"github.com/18Minahil/vanya-storefront/internal/domain"
	"github.com/18Minahil/vanya-storefront/internal/platform/httpx"
)

// ContentSource supplies the editorial content for the home page.
type ContentSource interface {
	Content() domain.Content
}

// HomeHandlers serves the home page view model: banner, hero slides, and
// promo sections. It owns the hero rotation, so the reported slide index
// stays in step with the carousel cadence the client renders.
type HomeHandlers struct {
	content      ContentSource
	heroInterval time.Duration
	logger       *zap.Logger

	mu   sync.Mutex
	hero *carousel.Carousel
}

// HomeHandlersDeps carries the dependencies for NewHomeHandlers.
type HomeHandlersDeps struct {
	Content      ContentSource
	HeroInterval time.Duration
	Logger       *zap.Logger
}

// NewHomeHandlers constructs handlers backed by the given content source
// and starts the hero rotation over its current slides.
func NewHomeHandlers(deps HomeHandlersDeps) *HomeHandlers {
	interval := deps.HeroInterval
	if interval <= 0 {
		interval = 4 * time.Second
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &HomeHandlers{
		content:      deps.Content,
		heroInterval: interval,
		logger:       logger,
	}
	if deps.Content != nil {
		h.resetHero(len(deps.Content.Content().HeroSlides))
	}
	return h
}

// Routes wires the home endpoints onto the provided router.
func (h *HomeHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/home", h.getHome)
}

// ContentChanged rebuilds the hero rotation for the new slide count. Wire
// it as a content provider subscriber so hot reloads keep the rotation in
// range.
func (h *HomeHandlers) ContentChanged(c domain.Content) {
	h.resetHero(len(c.HeroSlides))
}

// Close stops the hero rotation. Safe to call more than once.
func (h *HomeHandlers) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.hero != nil {
		h.hero.Stop()
		h.hero = nil
	}
}

func (h *HomeHandlers) resetHero(count int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hero != nil {
		h.hero.Stop()
		h.hero = nil
	}
	if count < 1 {
		return
	}
	hero, err := carousel.New(count)
	if err != nil {
		h.logger.Warn("hero rotation unavailable", zap.Int("slides", count), zap.Error(err))
		return
	}
	if err := hero.Start(h.heroInterval); err != nil {
		h.logger.Warn("hero rotation failed to start", zap.Error(err))
		return
	}
	h.hero = hero
}

func (h *HomeHandlers) heroIndex() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.hero == nil {
		return 0
	}
	return h.hero.Index()
}

type homeResponse struct {
	TopBanner      string                `json:"topBanner,omitempty"`
	HeroSlides     []domain.HeroSlide    `json:"heroSlides"`
	PromoSections  []domain.PromoSection `json:"promoSections,omitempty"`
	HeroIntervalMS int64                 `json:"heroIntervalMs"`
	HeroSlideCount int                   `json:"heroSlideCount"`
	HeroIndex      int                   `json:"heroIndex"`
}

func (h *HomeHandlers) getHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.content == nil {
		httpx.WriteError(ctx, w, httpx.NewError("content_unavailable", "home content is unavailable", http.StatusServiceUnavailable))
		return
	}

	content := h.content.Content()
	writeJSONResponse(w, http.StatusOK, homeResponse{
		TopBanner:      content.TopBanner,
		HeroSlides:     content.HeroSlides,
		PromoSections:  content.PromoSections,
		HeroIntervalMS: h.heroInterval.Milliseconds(),
		HeroSlideCount: len(content.HeroSlides),
		HeroIndex:      h.heroIndex(),
	})
}

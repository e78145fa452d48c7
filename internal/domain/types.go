package domain

import (
	"strings"
	"time"
)

// SortKey selects the ordering applied to a product listing.
type SortKey string

const (
	// SortFeatured preserves the catalog fetch order.
	SortFeatured SortKey = "featured"
	// SortPriceLow orders products by ascending price.
	SortPriceLow SortKey = "price-low"
	// SortPriceHigh orders products by descending price.
	SortPriceHigh SortKey = "price-high"
)

// CategoryAll is the sentinel category value that disables category filtering.
const CategoryAll = "ALL"

// ImageVariant is one named rendition of a catalog image.
type ImageVariant struct {
	URL string
}

// ImageFormats holds the size variants the CMS may attach to an image.
// Any of them can be absent; the canonical URL on ProductImage always exists.
type ImageFormats struct {
	Thumbnail *ImageVariant
	Small     *ImageVariant
	Medium    *ImageVariant
	Large     *ImageVariant
}

// ProductImage is one media descriptor in a product gallery. Order within
// Product.Images is display order; index 0 is the default.
type ProductImage struct {
	URL     string
	Formats ImageFormats
}

// RichTextChild is a single text run inside a rich-text block.
type RichTextChild struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// RichTextBlock is one block node of a CMS rich-text document.
type RichTextBlock struct {
	Type     string          `json:"type"`
	Children []RichTextChild `json:"children"`
}

// Product is an immutable snapshot of one catalog entry. Instances are
// created by normalising a CMS response record and never mutated afterwards.
type Product struct {
	ID       int64
	Name     string
	Slug     string
	Category string

	// Price is the current amount; OriginalPrice is set only when the
	// product is marked down (OriginalPrice > Price).
	Price         float64
	OriginalPrice float64

	InStock bool

	Images []ProductImage
	Sizes  []string
	Colors []string

	// Description is the first text run of the rich-text document,
	// already sanitised; empty when the document was absent or malformed.
	Description string

	Material string
	Care     []string
}

// HasVariantSizes reports whether a size choice is required to add the
// product to the cart.
func (p Product) HasVariantSizes() bool {
	return len(p.Sizes) > 0
}

// Discounted reports whether the product carries a meaningful markdown.
func (p Product) Discounted() bool {
	return p.OriginalPrice > p.Price
}

// LineKey is the composite identity of a cart line. Size and Color are
// empty strings when the product has no such variant dimension, so two
// entries differing only in variant identity never merge.
type LineKey struct {
	ProductID int64
	Size      string
	Color     string
}

// CartLine is one persisted cart entry. Name, Price, Slug and Image are
// snapshots captured at add time and are never refreshed from the catalog.
type CartLine struct {
	ID        string  `json:"lineId"`
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Slug      string  `json:"slug"`
	Quantity  int     `json:"quantity"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Image     string  `json:"image"`

	AddedAt time.Time `json:"addedAt"`
}

// Key returns the line's composite identity.
func (l CartLine) Key() LineKey {
	return LineKey{
		ProductID: l.ProductID,
		Size:      strings.TrimSpace(l.Size),
		Color:     strings.TrimSpace(l.Color),
	}
}

// CartTotals aggregates a cart snapshot for display.
type CartTotals struct {
	Subtotal  float64
	LineCount int
	UnitCount int
}

// CatalogQuery is the per-session listing state. The displayed list is a
// pure function of this value plus the fetched collection.
type CatalogQuery struct {
	Search   string
	Category string
	Sort     SortKey
}

// HeroSlide is one entry of the home-page hero carousel.
type HeroSlide struct {
	Image   string `yaml:"image" json:"image"`
	Heading string `yaml:"heading,omitempty" json:"heading,omitempty"`
	Link    string `yaml:"link,omitempty" json:"link,omitempty"`
}

// PromoSection is a curated promotional block on the home page.
type PromoSection struct {
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	Image    string `yaml:"image,omitempty" json:"image,omitempty"`
	Link     string `yaml:"link,omitempty" json:"link,omitempty"`
}

// Content is the editorial content rendered by the home page.
type Content struct {
	TopBanner     string         `yaml:"topBanner,omitempty" json:"topBanner,omitempty"`
	HeroSlides    []HeroSlide    `yaml:"heroSlides" json:"heroSlides"`
	PromoSections []PromoSection `yaml:"promoSections,omitempty" json:"promoSections,omitempty"`
}

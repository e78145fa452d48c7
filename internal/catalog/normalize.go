package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/18Minahil/vanya-storefront/internal/domain"
)

// productRecord mirrors the loosely-typed shape of one CMS catalog entry.
// Optional fields are pointers so absence is distinguishable from zero.
type productRecord struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	Slug          string                 `json:"slug"`
	Price         *float64               `json:"price"`
	OriginalPrice *float64               `json:"originalPrice"`
	Description   []domain.RichTextBlock `json:"description"`
	Category      string                 `json:"category"`
	InStock       bool                   `json:"inStock"`
	Sizes         []string               `json:"sizes"`
	Colors        []string               `json:"colors"`
	Material      string                 `json:"material"`
	Care          []string               `json:"care"`
	Images        []imageRecord          `json:"images"`
}

type imageRecord struct {
	URL     string `json:"url"`
	Formats struct {
		Thumbnail *formatRecord `json:"thumbnail"`
		Small     *formatRecord `json:"small"`
		Medium    *formatRecord `json:"medium"`
		Large     *formatRecord `json:"large"`
	} `json:"formats"`
}

type formatRecord struct {
	URL string `json:"url"`
}

var (
	errRecordMissingID    = errors.New("record is missing an id")
	errRecordMissingName  = errors.New("record is missing a name")
	errRecordMissingSlug  = errors.New("record is missing a slug")
	errRecordMissingPrice = errors.New("record is missing a price")
)

// normalizeProduct maps a raw CMS record onto the strict Product shape.
// A record lacking identity or a usable price is rejected as malformed;
// every other field defaults rather than failing.
func normalizeProduct(record productRecord, sanitizer *bluemonday.Policy) (domain.Product, error) {
	if record.ID <= 0 {
		return domain.Product{}, NewMalformedError("catalog: normalize product", errRecordMissingID)
	}

	name := strings.TrimSpace(record.Name)
	if name == "" {
		return domain.Product{}, NewMalformedError("catalog: normalize product", fmt.Errorf("%w (id %d)", errRecordMissingName, record.ID))
	}

	slug := strings.TrimSpace(record.Slug)
	if slug == "" {
		return domain.Product{}, NewMalformedError("catalog: normalize product", fmt.Errorf("%w (id %d)", errRecordMissingSlug, record.ID))
	}

	if record.Price == nil || *record.Price < 0 {
		return domain.Product{}, NewMalformedError("catalog: normalize product", fmt.Errorf("%w (id %d)", errRecordMissingPrice, record.ID))
	}

	product := domain.Product{
		ID:       record.ID,
		Name:     name,
		Slug:     slug,
		Category: strings.TrimSpace(record.Category),
		Price:    *record.Price,
		InStock:  record.InStock,
		Sizes:    normalizeLabels(record.Sizes),
		Colors:   normalizeLabels(record.Colors),
		Material: strings.TrimSpace(record.Material),
		Care:     normalizeLabels(record.Care),
		Images:   normalizeImages(record.Images),
	}

	// An original price only expresses a markdown when it exceeds the
	// current price; anything else is dropped.
	if record.OriginalPrice != nil && *record.OriginalPrice > product.Price {
		product.OriginalPrice = *record.OriginalPrice
	}

	product.Description = descriptionExcerpt(record.Description, sanitizer)

	return product, nil
}

func normalizeImages(records []imageRecord) []domain.ProductImage {
	if len(records) == 0 {
		return nil
	}
	images := make([]domain.ProductImage, 0, len(records))
	for _, record := range records {
		image := domain.ProductImage{
			URL: strings.TrimSpace(record.URL),
			Formats: domain.ImageFormats{
				Thumbnail: normalizeVariant(record.Formats.Thumbnail),
				Small:     normalizeVariant(record.Formats.Small),
				Medium:    normalizeVariant(record.Formats.Medium),
				Large:     normalizeVariant(record.Formats.Large),
			},
		}
		images = append(images, image)
	}
	return images
}

func normalizeVariant(record *formatRecord) *domain.ImageVariant {
	if record == nil {
		return nil
	}
	url := strings.TrimSpace(record.URL)
	if url == "" {
		return nil
	}
	return &domain.ImageVariant{URL: url}
}

func normalizeLabels(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	result := make([]string, 0, len(labels))
	for _, label := range labels {
		trimmed := strings.TrimSpace(label)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// descriptionExcerpt extracts the first text run of the rich-text document,
// the only part the storefront renders. Absent or malformed structure yields
// an empty string.
func descriptionExcerpt(blocks []domain.RichTextBlock, sanitizer *bluemonday.Policy) string {
	if len(blocks) == 0 || len(blocks[0].Children) == 0 {
		return ""
	}
	text := strings.TrimSpace(blocks[0].Children[0].Text)
	if text == "" || sanitizer == nil {
		return text
	}
	return strings.TrimSpace(sanitizer.Sanitize(text))
}

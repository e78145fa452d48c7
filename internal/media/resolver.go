// Package media selects display URLs for CMS-hosted catalog images.
package media

import (
	"strings"

	"github.com/18Minahil/vanya-storefront/internal/domain"
)

// DefaultPlaceholder is served when a product image cannot be resolved at
// any rendition.
const DefaultPlaceholder = "/placeholder.svg?height=300&width=300"

// Size names one CMS-generated image rendition.
type Size string

const (
	// SizeThumbnail is the smallest generated rendition.
	SizeThumbnail Size = "thumbnail"
	// SizeSmall is the small rendition.
	SizeSmall Size = "small"
	// SizeMedium is the medium rendition.
	SizeMedium Size = "medium"
	// SizeLarge is the largest generated rendition.
	SizeLarge Size = "large"
)

// Preference orders matching how the storefront pages pick renditions.
var (
	// DetailSizes suits the product-detail hero image.
	DetailSizes = []Size{SizeLarge, SizeMedium, SizeSmall}
	// ListingSizes suits product cards on the listing grid.
	ListingSizes = []Size{SizeMedium}
	// ThumbSizes suits gallery thumbnails.
	ThumbSizes = []Size{SizeSmall, SizeThumbnail}
	// CartSizes suits the snapshot stored on a cart line.
	CartSizes = []Size{SizeMedium, SizeSmall}
)

// Resolve returns the best available URL for the image: the first preferred
// rendition that exists, else the canonical URL, else the fallback. Absence
// at every step is a normal path; Resolve never fails.
func Resolve(image *domain.ProductImage, sizes []Size, fallback string) string {
	if image == nil {
		return fallback
	}
	for _, size := range sizes {
		if url := variantURL(image.Formats, size); url != "" {
			return url
		}
	}
	if url := strings.TrimSpace(image.URL); url != "" {
		return url
	}
	return fallback
}

func variantURL(formats domain.ImageFormats, size Size) string {
	var variant *domain.ImageVariant
	switch size {
	case SizeThumbnail:
		variant = formats.Thumbnail
	case SizeSmall:
		variant = formats.Small
	case SizeMedium:
		variant = formats.Medium
	case SizeLarge:
		variant = formats.Large
	}
	if variant == nil {
		return ""
	}
	return strings.TrimSpace(variant.URL)
}

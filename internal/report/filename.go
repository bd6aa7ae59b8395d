package report

import (
	"strings"
	"time"
)

const maxSlugLen = 80

// SanitizeProduct maps a free-text product name onto a filesystem-safe
// slug. Anything outside [A-Za-z0-9._-] becomes an underscore.
func SanitizeProduct(product string) string {
	var b strings.Builder
	for _, r := range product {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	slug := strings.Trim(b.String(), "._-")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	if slug == "" {
		return "product"
	}
	return slug
}

// Filename builds `{product}_report_{UTCtimestamp}.{ext}` with second
// precision.
func Filename(product, ext string, t time.Time) string {
	return SanitizeProduct(product) + "_report_" + t.UTC().Format("20060102_150405") + "." + ext
}

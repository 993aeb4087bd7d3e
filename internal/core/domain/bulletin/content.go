package bulletin

import (
	"strings"
	"unicode/utf8"
)

// fullWidthOffset maps full-width digits (U+FF10..U+FF19) to ASCII.
const fullWidthOffset = 0xFEE0

// FoldFullWidthDigits converts full-width digits ０-９ to their half-width
// equivalents. All other runes pass through unchanged, so folding is
// idempotent.
func FoldFullWidthDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '０' && r <= '９' {
			return r - fullWidthOffset
		}
		return r
	}, s)
}

// NormalizeContent prepares submitted content for storage: trim, fold
// full-width digits, then enforce the length bound. Folding happens before
// validation so the validated and stored forms are identical, matching the
// CHECK constraint on the table.
func NormalizeContent(s string, maxLen int) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", ErrEmptyContent
	}
	normalized := FoldFullWidthDigits(trimmed)
	if utf8.RuneCountInString(normalized) > maxLen {
		return "", ErrContentTooLong
	}
	return normalized, nil
}

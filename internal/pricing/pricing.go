// Package pricing computes website quotes from the answers collected in the
// sales funnel. It is deliberately free of dependencies so the quote logic
// can be tested and reasoned about in isolation.
package pricing

import "strings"

// Quote returns the price in rupees for a website of the given type with the
// given comma-separated page list. Classification is by substring match on the
// lower-cased type, business before ecommerce before portfolio; anything else
// falls back to the default rate.
func Quote(websiteType, pages string) int {
	count := pageCount(pages)
	siteType := strings.ToLower(websiteType)

	switch {
	case strings.Contains(siteType, "business"):
		if count <= 5 {
			return 7000
		}
		return 10000
	case strings.Contains(siteType, "ecommerce"), strings.Contains(siteType, "e-commerce"):
		if count <= 5 {
			return 15000
		}
		return 25000
	case strings.Contains(siteType, "portfolio"):
		return 5000
	default:
		return 8000
	}
}

// pageCount counts non-empty comma-separated tokens.
func pageCount(pages string) int {
	count := 0
	for _, token := range strings.Split(pages, ",") {
		if strings.TrimSpace(token) != "" {
			count++
		}
	}
	return count
}

package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	skuInvalid    = regexp.MustCompile(`[^A-Z0-9-]+`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// GenerateSKU builds a SKU from value labels.
// e.g. ("VAR-", ["Navy Blue", "X-L"]) -> "VAR-NAVY-BLUE-X-L"
func GenerateSKU(prefix string, values []string) string {
	s := strings.ToUpper(strings.Join(values, "-"))

	// Replace whitespace runs with hyphens
	s = whitespaceRun.ReplaceAllString(s, "-")

	// Remove invalid chars (keep A-Z, 0-9, hyphen)
	s = skuInvalid.ReplaceAllString(s, "")

	// Collapse multiple hyphens
	s = hyphenRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	return prefix + s
}

// ParseInt parses a string to int with a fallback default value
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}

// ParseOptionalInt parses user input for a sparse update.
// Returns present=false for nil or blank input, ok=false if the text is not an integer.
func ParseOptionalInt(s *string) (val int, present bool, ok bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return 0, false, true
	}
	val, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return 0, true, false
	}
	return val, true, true
}

// ParseOptionalDecimal is the decimal counterpart of ParseOptionalInt.
func ParseOptionalDecimal(s *string) (val decimal.Decimal, present bool, ok bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return decimal.Zero, false, true
	}
	val, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil {
		return decimal.Zero, true, false
	}
	return val, true, true
}

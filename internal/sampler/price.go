package sampler

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var currencySuffix = regexp.MustCompile(`\s*(UAH|ГРН\.?|EUR|USD|KN|HRK)\s*$`)

// ParsePrice parses a feed price into a value rounded to cents.
// Handles "1299.50", "1299,50", "1.299,50", "1 299,50 грн"
func ParsePrice(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, fmt.Errorf("empty price value")
	}

	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case '€', '$', '£', '₴', ' ', '\u00A0':
			return -1
		}
		return r
	}, cleaned)
	cleaned = currencySuffix.ReplaceAllString(strings.ToUpper(cleaned), "")
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric value found")
	}

	// The separator that comes last is the decimal one
	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")
	if lastComma > lastDot {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else if lastDot > lastComma {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	result, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price format: %w", err)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("non-finite price: %s", value)
	}
	if result < 0 {
		return 0, fmt.Errorf("negative price: %s", value)
	}
	return math.Round(result*100) / 100, nil
}

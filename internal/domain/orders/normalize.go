package orders

import (
	"strings"

	"golang.org/x/text/cases"
)

// ProductKey maps a free-text product name to its comparison key:
// trimmed, case-folded, all spaces removed. The same input always
// yields the same key, and the function is idempotent.
func ProductKey(s string) string {
	folded := cases.Fold().String(strings.TrimSpace(s))
	return strings.ReplaceAll(folded, " ", "")
}

// CompanyKey maps a free-text company name to its comparison key.
// In addition to the product rules, "&" collapses to "and" so that
// "A & B Co" and "a&bco" compare equal.
func CompanyKey(s string) string {
	folded := cases.Fold().String(strings.TrimSpace(s))
	folded = strings.ReplaceAll(folded, "&", "and")
	return strings.ReplaceAll(folded, " ", "")
}

package orders

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint derives a stable digest for a submission from the company
// and the multiset of its line items. Line order does not matter; two
// submissions with the same company key and the same (product, brand,
// quantity, price) tuples collide on purpose, that is what the
// double-submit guard keys on.
func Fingerprint(company string, lines []LineItem) string {
	tuples := make([]string, 0, len(lines))
	for _, l := range lines {
		tuples = append(tuples, fmt.Sprintf("%s|%s|%d|%s",
			ProductKey(l.Product),
			strings.TrimSpace(strings.ToLower(l.Brand)),
			l.Quantity,
			l.Price.StringFixed(2),
		))
	}
	sort.Strings(tuples)

	h := sha256.New()
	h.Write([]byte(CompanyKey(company)))
	for _, t := range tuples {
		h.Write([]byte{0})
		h.Write([]byte(t))
	}
	return hex.EncodeToString(h.Sum(nil))
}

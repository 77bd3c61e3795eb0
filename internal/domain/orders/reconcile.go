package orders

import "strings"

// DispatchKey joins dispatch rows to order rows. Serial is taken
// verbatim (trimmed), the product name goes through ProductKey.
type DispatchKey struct {
	Serial  string
	Product string
}

// Line is the reconciliation result for a single live order row.
// Remaining may be negative when more was dispatched than ordered;
// pending views filter that out, callers that care can inspect it.
type Line struct {
	Row        int    `json:"row"`
	Company    string `json:"company"`
	Product    string `json:"product"`
	Serial     string `json:"serial"`
	Ordered    int    `json:"ordered"`
	Dispatched int    `json:"dispatched"`
	Remaining  int    `json:"remaining"`
	Price      string `json:"price"`
}

// DispatchTotals sums dispatch quantities per (serial, product key).
// Rows with an unparsable quantity or a missing serial or product are
// skipped; a bad row must never poison the rest of the sheet.
func DispatchTotals(rows []DispatchRow) map[DispatchKey]int {
	totals := make(map[DispatchKey]int, len(rows))
	for _, r := range rows {
		serial := strings.TrimSpace(r.Serial)
		product := ProductKey(r.Product)
		if serial == "" || product == "" {
			continue
		}
		qty, ok := ParseQuantity(r.Quantity)
		if !ok {
			continue
		}
		totals[DispatchKey{Serial: serial, Product: product}] += qty
	}
	return totals
}

// Reconcile computes remaining = ordered - dispatched for every live
// order row. Soft-deleted rows (blank date) are excluded. The result
// keeps over-dispatched lines; use Pending to get the user-facing view.
func Reconcile(rows []OrderRow, totals map[DispatchKey]int) []Line {
	out := make([]Line, 0, len(rows))
	for _, r := range rows {
		if r.Deleted() {
			continue
		}
		serial := strings.TrimSpace(r.Serial)
		ordered := r.Ordered()
		dispatched := totals[DispatchKey{Serial: serial, Product: ProductKey(r.Product)}]
		out = append(out, Line{
			Row:        r.Row,
			Company:    strings.TrimSpace(r.Company),
			Product:    r.Product,
			Serial:     serial,
			Ordered:    ordered,
			Dispatched: dispatched,
			Remaining:  ordered - dispatched,
			Price:      r.Price,
		})
	}
	return out
}

// Pending filters reconciled lines down to those with remaining > 0.
func Pending(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Remaining > 0 {
			out = append(out, l)
		}
	}
	return out
}

// Overdispatched returns lines where more was dispatched than ordered.
// These are hidden from pending views but worth surfacing in logs.
func Overdispatched(lines []Line) []Line {
	var out []Line
	for _, l := range lines {
		if l.Remaining < 0 {
			out = append(out, l)
		}
	}
	return out
}

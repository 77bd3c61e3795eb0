package orders

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderRow is one line of the orders worksheet. Raw cell text is kept
// as-is; quantity and price fields may hold anything a user typed into
// the sheet, so parsing is done lazily and failures degrade to zero.
type OrderRow struct {
	Row      int // 1-indexed sheet row, header is row 1
	Serial   string
	Date     string
	Company  string
	Product  string
	Brand    string
	Quantity string
	Price    string
}

// Deleted reports whether the row is a soft-deleted or not-yet-filled
// slot. A blank date marks both.
func (r OrderRow) Deleted() bool {
	return strings.TrimSpace(r.Date) == ""
}

// Ordered returns the ordered quantity, or zero when the cell does not
// parse as a number.
func (r OrderRow) Ordered() int {
	q, _ := ParseQuantity(r.Quantity)
	return q
}

// DispatchRow is one line of the dispatch worksheet. Append-only;
// Company is informational, the join to an order happens on
// (Serial, ProductKey(Product)).
type DispatchRow struct {
	Date     string
	Company  string
	Product  string
	Quantity string
	Serial   string
}

// Snapshot carries the mutable fields of an order row as captured by a
// caller before a soft delete. Restore writes it back verbatim.
type Snapshot struct {
	Date     string `json:"date"`
	Company  string `json:"company"`
	Product  string `json:"product"`
	Brand    string `json:"brand"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

// LineItem is one validated order line from a submission.
type LineItem struct {
	Product  string
	Brand    string
	Quantity int
	Price    decimal.Decimal
}

// NewOrder is an order line ready to be persisted.
type NewOrder struct {
	Company string
	LineItem
}

// NewDispatch is a dispatch entry ready to be appended.
type NewDispatch struct {
	Company  string
	Product  string
	Quantity int
	Serial   string
}

// ReferenceLists holds the lookup lists backing the entry forms.
type ReferenceLists struct {
	Products  []string `json:"products"`
	Companies []string `json:"companies"`
	Brands    []string `json:"brands"`
}

// ParseQuantity parses a sheet quantity cell. Values like "12" and
// "12.0" both yield 12; fractional parts are truncated the way the
// sheet formulas do. The second return is false when the cell is not
// numeric.
func ParseQuantity(s string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

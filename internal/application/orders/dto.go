package orders

import (
	"github.com/orderdesk/backend/internal/domain/orders"
	"github.com/shopspring/decimal"
)

// RecentOrder is one row of the recent-orders view. Cell text is
// passed through as stored; Total is derived when both quantity and
// price parse as numbers and left empty otherwise.
type RecentOrder struct {
	Row      int    `json:"row"`
	Serial   string `json:"serial"`
	Date     string `json:"date"`
	Company  string `json:"company"`
	Product  string `json:"product"`
	Brand    string `json:"brand"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Total    string `json:"total"`
}

// SubmitResult reports how many order lines a submission persisted.
type SubmitResult struct {
	Company string `json:"company"`
	Lines   int    `json:"lines"`
}

// DispatchInput is one entry of a dispatch save request.
type DispatchInput struct {
	Serial   string `json:"order_number"`
	Company  string `json:"company"`
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// DispatchSaveResult reports the outcome of a dispatch batch. Entries
// are independent; a bad one is reported in Errors without blocking
// the rest. Ok is set when at least one entry was written.
type DispatchSaveResult struct {
	Ok      bool     `json:"ok"`
	Written int      `json:"rows_written"`
	Errors  []string `json:"errors,omitempty"`
}

func recentOrderFrom(r orders.OrderRow, taxInclusive bool) RecentOrder {
	return RecentOrder{
		Row:      r.Row,
		Serial:   r.Serial,
		Date:     r.Date,
		Company:  r.Company,
		Product:  r.Product,
		Brand:    r.Brand,
		Quantity: r.Quantity,
		Price:    r.Price,
		Total:    lineTotal(r.Quantity, r.Price, taxInclusive),
	}
}

func lineTotal(quantity, price string, taxInclusive bool) string {
	q, err := decimal.NewFromString(trim(quantity))
	if err != nil {
		return ""
	}
	p, err := decimal.NewFromString(trim(price))
	if err != nil {
		return ""
	}
	total := q.Mul(p)
	if taxInclusive {
		total = total.Mul(gstRate)
	}
	return total.Round(2).StringFixed(2)
}

package orders

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/orderdesk/backend/internal/domain/orders"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// gstRate converts between net and 5% GST-inclusive amounts.
var gstRate = decimal.RequireFromString("1.05")

var lineKeyPattern = regexp.MustCompile(`^orders\[(\d+)\]\[(product|brand|quantity|price)\]$`)

// OrderService handles order submission and row-level edits. The
// repository may be nil when the spreadsheet backend failed to
// initialize; every operation then degrades to a backend-unavailable
// error instead of crashing the process.
type OrderService struct {
	repo    orders.Repository
	dedup   orders.DedupStore
	horizon time.Duration
	log     *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo orders.Repository, dedup orders.DedupStore, horizon time.Duration, log *zap.Logger) *OrderService {
	return &OrderService{
		repo:    repo,
		dedup:   dedup,
		horizon: horizon,
		log:     log.Named("orders"),
	}
}

// Submit validates a multi-line order form, applies the double-submit
// guard and appends one sheet row per line. The guard is best-effort:
// if the dedup store errors the submission still goes through.
func (s *OrderService) Submit(ctx context.Context, form url.Values) (*SubmitResult, error) {
	if s.repo == nil {
		return nil, shared.ErrBackendUnavailable
	}

	company, items, err := ParseSubmission(form)
	if err != nil {
		return nil, err
	}

	fp := orders.Fingerprint(company, items)
	fresh, err := s.dedup.MarkSeen(ctx, fp, s.horizon)
	if err != nil {
		s.log.Warn("dedup store error, accepting submission", zap.Error(err))
	} else if !fresh {
		s.log.Info("duplicate submission rejected",
			zap.String("company", company),
			zap.Int("lines", len(items)),
		)
		return nil, shared.ErrDuplicateSubmission
	}

	for _, item := range items {
		order := orders.NewOrder{Company: company, LineItem: item}
		if err := s.repo.AppendOrder(ctx, order); err != nil {
			return nil, err
		}
	}

	s.log.Info("order submitted",
		zap.String("company", company),
		zap.Int("lines", len(items)),
	)
	return &SubmitResult{Company: company, Lines: len(items)}, nil
}

// Update overwrites product, brand, quantity and price of one row.
func (s *OrderService) Update(ctx context.Context, row int, product, brand string, quantity int, price string) error {
	if s.repo == nil {
		return shared.ErrBackendUnavailable
	}
	if row < 2 {
		return shared.NewDomainError("INVALID_INPUT", "row must be 2 or greater")
	}
	item, err := buildLineItem(product, brand, strconv.Itoa(quantity), price, false)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateOrder(ctx, row, item); err != nil {
		return err
	}
	s.log.Info("order updated", zap.Int("row", row))
	return nil
}

// Delete soft-deletes a row and returns a snapshot of what it held,
// so the caller can offer an undo.
func (s *OrderService) Delete(ctx context.Context, row int) (*orders.Snapshot, error) {
	if s.repo == nil {
		return nil, shared.ErrBackendUnavailable
	}
	if row < 2 {
		return nil, shared.NewDomainError("INVALID_INPUT", "row must be 2 or greater")
	}

	rows, err := s.repo.OrderRows(ctx)
	if err != nil {
		return nil, err
	}
	var target *orders.OrderRow
	for i := range rows {
		if rows[i].Row == row {
			target = &rows[i]
			break
		}
	}
	if target == nil || target.Deleted() {
		return nil, shared.ErrNotFound
	}

	snap := orders.Snapshot{
		Date:     target.Date,
		Company:  target.Company,
		Product:  target.Product,
		Brand:    target.Brand,
		Quantity: target.Quantity,
		Price:    target.Price,
	}
	if err := s.repo.SoftDeleteOrder(ctx, row); err != nil {
		return nil, err
	}
	s.log.Info("order deleted", zap.Int("row", row))
	return &snap, nil
}

// Restore writes a previously captured snapshot back into its row.
func (s *OrderService) Restore(ctx context.Context, row int, snap orders.Snapshot) error {
	if s.repo == nil {
		return shared.ErrBackendUnavailable
	}
	if row < 2 {
		return shared.NewDomainError("INVALID_INPUT", "row must be 2 or greater")
	}
	if strings.TrimSpace(snap.Date) == "" {
		return shared.NewDomainError("INVALID_INPUT", "snapshot date must not be empty")
	}
	if err := s.repo.RestoreOrder(ctx, row, snap); err != nil {
		return err
	}
	s.log.Info("order restored", zap.Int("row", row))
	return nil
}

// ParseSubmission extracts company and line items from a bracketed
// order form (orders[0][product], orders[0][quantity], ...). Indices
// need not be contiguous; lines come back in index order. When the
// includes_gst flag is set, prices are treated as tax-inclusive and
// the 5% GST component is stripped.
func ParseSubmission(form url.Values) (string, []orders.LineItem, error) {
	company := strings.TrimSpace(form.Get("company"))
	if company == "" {
		return "", nil, shared.NewDomainError("INVALID_INPUT", "company is required")
	}
	includesGST := isTruthy(form.Get("includes_gst"))

	byIndex := make(map[int]map[string]string)
	for key := range form {
		m := lineKeyPattern.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		idx, _ := strconv.Atoi(m[1])
		if byIndex[idx] == nil {
			byIndex[idx] = make(map[string]string)
		}
		byIndex[idx][m[2]] = form.Get(key)
	}
	if len(byIndex) == 0 {
		return "", nil, shared.NewDomainError("INVALID_INPUT", "at least one order line is required")
	}

	indices := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	items := make([]orders.LineItem, 0, len(indices))
	for _, idx := range indices {
		fields := byIndex[idx]
		item, err := buildLineItem(fields["product"], fields["brand"], fields["quantity"], fields["price"], includesGST)
		if err != nil {
			return "", nil, fmt.Errorf("line %d: %w", idx, err)
		}
		items = append(items, item)
	}
	return company, items, nil
}

func buildLineItem(product, brand, quantity, price string, includesGST bool) (orders.LineItem, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return orders.LineItem{}, shared.NewDomainError("INVALID_INPUT", "product is required")
	}
	qty, err := strconv.Atoi(trim(quantity))
	if err != nil || qty <= 0 {
		return orders.LineItem{}, shared.NewDomainError("INVALID_INPUT", "quantity must be a positive integer")
	}
	p, err := decimal.NewFromString(trim(price))
	if err != nil || p.IsNegative() {
		return orders.LineItem{}, shared.NewDomainError("INVALID_INPUT", "price must be a non-negative number")
	}
	if includesGST {
		p = p.Div(gstRate).Round(2)
	}
	return orders.LineItem{
		Product:  product,
		Brand:    strings.TrimSpace(brand),
		Quantity: qty,
		Price:    p,
	}, nil
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

package orders

import (
	"context"
	"sort"
	"strings"

	"github.com/orderdesk/backend/internal/domain/orders"
	"github.com/orderdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ReportService serves the read side: pending-order views, the pivot
// matrix, reference lists and recent orders. Everything is computed
// from fresh full-sheet reads (memoized briefly by the repository).
type ReportService struct {
	repo orders.Repository
	log  *zap.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(repo orders.Repository, log *zap.Logger) *ReportService {
	return &ReportService{
		repo: repo,
		log:  log.Named("reports"),
	}
}

// OrdersByProduct returns pending lines whose product matches the
// given name under key normalization.
func (s *ReportService) OrdersByProduct(ctx context.Context, product string) ([]orders.Line, error) {
	lines, err := s.pendingLines(ctx)
	if err != nil {
		return nil, err
	}
	key := orders.ProductKey(product)
	out := make([]orders.Line, 0, len(lines))
	for _, l := range lines {
		if orders.ProductKey(l.Product) == key {
			out = append(out, l)
		}
	}
	return out, nil
}

// OrdersByParty returns pending lines whose company matches the given
// name under key normalization.
func (s *ReportService) OrdersByParty(ctx context.Context, party string) ([]orders.Line, error) {
	lines, err := s.pendingLines(ctx)
	if err != nil {
		return nil, err
	}
	key := orders.CompanyKey(party)
	out := make([]orders.Line, 0, len(lines))
	for _, l := range lines {
		if orders.CompanyKey(l.Company) == key {
			out = append(out, l)
		}
	}
	return out, nil
}

// PivotData builds the company x product matrix of pending quantities,
// optionally narrowed by comma-separated substring filters.
func (s *ReportService) PivotData(ctx context.Context, productFilter, partyFilter string) (*orders.Pivot, error) {
	lines, err := s.reconciledLines(ctx)
	if err != nil {
		return nil, err
	}
	pivot := orders.BuildPivot(lines, productFilter, partyFilter)
	return &pivot, nil
}

// PartiesWithPending returns the sorted distinct companies that still
// have something outstanding.
func (s *ReportService) PartiesWithPending(ctx context.Context) ([]string, error) {
	lines, err := s.pendingLines(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(lines, func(l orders.Line) string { return l.Company }), nil
}

// ProductsWithPending returns the sorted distinct products that still
// have something outstanding.
func (s *ReportService) ProductsWithPending(ctx context.Context) ([]string, error) {
	lines, err := s.pendingLines(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(lines, func(l orders.Line) string { return strings.TrimSpace(l.Product) }), nil
}

// RecentOrders returns up to limit live order rows, newest first
// (sheet rows are filled top to bottom, so bottom rows are newest).
// Totals are net of tax.
func (s *ReportService) RecentOrders(ctx context.Context, limit int) ([]RecentOrder, error) {
	return s.recent(ctx, limit, false)
}

// RecentOrdersTaxInclusive is RecentOrders with GST-inclusive totals,
// used by the edit table where the billed amount is shown.
func (s *ReportService) RecentOrdersTaxInclusive(ctx context.Context, limit int) ([]RecentOrder, error) {
	return s.recent(ctx, limit, true)
}

func (s *ReportService) recent(ctx context.Context, limit int, taxInclusive bool) ([]RecentOrder, error) {
	if s.repo == nil {
		return nil, shared.ErrBackendUnavailable
	}
	rows, err := s.repo.OrderRows(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RecentOrder, 0, limit)
	for i := len(rows) - 1; i >= 0 && len(out) < limit; i-- {
		if rows[i].Deleted() {
			continue
		}
		out = append(out, recentOrderFrom(rows[i], taxInclusive))
	}
	return out, nil
}

// Lists returns the product/company/brand reference lists.
func (s *ReportService) Lists(ctx context.Context) (orders.ReferenceLists, error) {
	if s.repo == nil {
		return orders.ReferenceLists{}, shared.ErrBackendUnavailable
	}
	return s.repo.Lists(ctx)
}

func (s *ReportService) reconciledLines(ctx context.Context) ([]orders.Line, error) {
	if s.repo == nil {
		return nil, shared.ErrBackendUnavailable
	}
	rows, err := s.repo.OrderRows(ctx)
	if err != nil {
		return nil, err
	}
	dispatches, err := s.repo.DispatchRows(ctx)
	if err != nil {
		return nil, err
	}

	lines := orders.Reconcile(rows, orders.DispatchTotals(dispatches))
	for _, l := range orders.Overdispatched(lines) {
		s.log.Warn("dispatched more than ordered",
			zap.String("serial", l.Serial),
			zap.String("product", l.Product),
			zap.Int("ordered", l.Ordered),
			zap.Int("dispatched", l.Dispatched),
		)
	}
	return lines, nil
}

func (s *ReportService) pendingLines(ctx context.Context) ([]orders.Line, error) {
	lines, err := s.reconciledLines(ctx)
	if err != nil {
		return nil, err
	}
	return orders.Pending(lines), nil
}

func distinct(lines []orders.Line, pick func(orders.Line) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lines {
		v := pick(l)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

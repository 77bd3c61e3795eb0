package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	apporders "github.com/orderdesk/backend/internal/application/orders"
	"github.com/orderdesk/backend/internal/domain/orders"
	"github.com/orderdesk/backend/internal/interfaces/http/middleware"
	"github.com/orderdesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// fakeRepo is a canned-data Repository for handler tests.
type fakeRepo struct {
	orderRows  []orders.OrderRow
	dispatches []orders.DispatchRow
	lists      orders.ReferenceLists

	appended   []orders.NewOrder
	dispatched []orders.NewDispatch
	updated    map[int]orders.LineItem
	deleted    []int
	restored   map[int]orders.Snapshot

	err error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		updated:  make(map[int]orders.LineItem),
		restored: make(map[int]orders.Snapshot),
	}
}

func (f *fakeRepo) OrderRows(ctx context.Context) ([]orders.OrderRow, error) {
	return f.orderRows, f.err
}

func (f *fakeRepo) DispatchRows(ctx context.Context) ([]orders.DispatchRow, error) {
	return f.dispatches, f.err
}

func (f *fakeRepo) Lists(ctx context.Context) (orders.ReferenceLists, error) {
	return f.lists, f.err
}

func (f *fakeRepo) AppendOrder(ctx context.Context, order orders.NewOrder) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, order)
	return nil
}

func (f *fakeRepo) UpdateOrder(ctx context.Context, row int, item orders.LineItem) error {
	if f.err != nil {
		return f.err
	}
	f.updated[row] = item
	return nil
}

func (f *fakeRepo) SoftDeleteOrder(ctx context.Context, row int) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, row)
	return nil
}

func (f *fakeRepo) RestoreOrder(ctx context.Context, row int, snap orders.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.restored[row] = snap
	return nil
}

func (f *fakeRepo) AppendDispatch(ctx context.Context, d orders.NewDispatch) error {
	if f.err != nil {
		return f.err
	}
	f.dispatched = append(f.dispatched, d)
	return nil
}

type freshDedup struct{}

func (freshDedup) MarkSeen(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (freshDedup) Close() error { return nil }

type staleDedup struct{}

func (staleDedup) MarkSeen(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	return false, nil
}

func (staleDedup) Close() error { return nil }

// testEngine wires handlers over the given repository the way main does.
func testEngine(repo orders.Repository, dedup orders.DedupStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	log := zap.NewNop()

	orderSvc := apporders.NewOrderService(repo, dedup, 5*time.Second, log)
	reportSvc := apporders.NewReportService(repo, log)
	dispatchSvc := apporders.NewDispatchService(repo, log)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	router.NewRouter(engine).
		Register(NewSystemHandler(repo != nil)).
		Register(NewOrderHandler(orderSvc, reportSvc, nil)).
		Register(NewReportHandler(reportSvc, nil)).
		Register(NewDispatchHandler(dispatchSvc, reportSvc)).
		Setup()
	return engine
}

package sheets

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/orderdesk/backend/internal/domain/orders"
	"github.com/orderdesk/backend/internal/domain/shared"
	"github.com/orderdesk/backend/internal/infrastructure/cache"
	"github.com/orderdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const (
	cacheKeyOrders   = "orders_rows"
	cacheKeyDispatch = "dispatch_rows"

	dateLayout = "2006-01-02"
)

var dispatchHeader = []interface{}{"Date", "Company", "Product", "Quantity", "Order Number"}

// Client talks to the Google Sheets spreadsheet that acts as the
// system of record. Reads are full-worksheet scans memoized for a few
// seconds; writes address individual rows and drop the memo. Calls
// that fail transiently are retried with exponential backoff before
// the backend is reported unavailable.
type Client struct {
	svc   *sheetsapi.Service
	cfg   config.SheetsConfig
	cache *cache.RowCache
	log   *zap.Logger
	now   func() time.Time
}

// New creates a sheets client, verifies access to the spreadsheet and
// creates the dispatch worksheet (with its header row) if it does not
// exist yet.
func New(ctx context.Context, cfg config.SheetsConfig, rowCache *cache.RowCache, log *zap.Logger) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	c := &Client{
		svc:   svc,
		cfg:   cfg,
		cache: rowCache,
		log:   log.Named("sheets"),
		now:   time.Now,
	}

	if err := c.ensureDispatchWorksheet(ctx); err != nil {
		return nil, fmt.Errorf("ensuring dispatch worksheet: %w", err)
	}
	return c, nil
}

// OrderRows returns every data row of the orders worksheet, including
// soft-deleted slots. Row numbers are 1-indexed with the header on
// row 1, so data starts at row 2.
func (c *Client) OrderRows(ctx context.Context) ([]orders.OrderRow, error) {
	grid, err := c.cachedGrid(ctx, cacheKeyOrders, c.gridRange(c.cfg.OrdersWorksheet, "A:G"))
	if err != nil {
		return nil, c.fail("read orders", err)
	}

	rows := make([]orders.OrderRow, 0, len(grid))
	for i, r := range grid {
		if i == 0 {
			continue // header
		}
		rows = append(rows, orders.OrderRow{
			Row:      i + 1,
			Serial:   cell(r, 0),
			Date:     cell(r, 1),
			Company:  cell(r, 2),
			Product:  cell(r, 3),
			Brand:    cell(r, 4),
			Quantity: cell(r, 5),
			Price:    cell(r, 6),
		})
	}
	return rows, nil
}

// DispatchRows returns every data row of the dispatch worksheet.
func (c *Client) DispatchRows(ctx context.Context) ([]orders.DispatchRow, error) {
	grid, err := c.cachedGrid(ctx, cacheKeyDispatch, c.gridRange(c.cfg.DispatchWorksheet, "A:E"))
	if err != nil {
		return nil, c.fail("read dispatches", err)
	}

	rows := make([]orders.DispatchRow, 0, len(grid))
	for i, r := range grid {
		if i == 0 {
			continue
		}
		rows = append(rows, orders.DispatchRow{
			Date:     cell(r, 0),
			Company:  cell(r, 1),
			Product:  cell(r, 2),
			Quantity: cell(r, 3),
			Serial:   cell(r, 4),
		})
	}
	return rows, nil
}

// Lists reads the reference worksheets. A missing worksheet yields an
// empty list rather than an error; the entry forms still work without
// the lookups.
func (c *Client) Lists(ctx context.Context) (orders.ReferenceLists, error) {
	out := orders.ReferenceLists{}
	for _, w := range []struct {
		worksheet string
		dest      *[]string
	}{
		{c.cfg.ProductsWorksheet, &out.Products},
		{c.cfg.CompaniesWorksheet, &out.Companies},
		{c.cfg.BrandsWorksheet, &out.Brands},
	} {
		grid, err := c.cachedGrid(ctx, "lists_"+w.worksheet, c.gridRange(w.worksheet, "A:A"))
		if err != nil {
			if isMissingRange(err) {
				continue
			}
			return orders.ReferenceLists{}, c.fail("read lists", err)
		}
		for i, r := range grid {
			if i == 0 {
				continue
			}
			if v := cell(r, 0); v != "" {
				*w.dest = append(*w.dest, v)
			}
		}
	}
	return out, nil
}

// AppendOrder writes the order into the first row whose date cell is
// blank (filling gaps left by soft deletes), or past the last row.
// Column A holds the formula-assigned serial and is never written.
func (c *Client) AppendOrder(ctx context.Context, order orders.NewOrder) error {
	// fresh read: a stale gap position would clobber another row
	grid, err := c.readGrid(ctx, c.gridRange(c.cfg.OrdersWorksheet, "A:G"))
	if err != nil {
		return c.fail("find order slot", err)
	}

	target := firstFreeRow(grid)

	values := [][]interface{}{{
		c.now().Format(dateLayout),
		order.Company,
		order.Product,
		order.Brand,
		order.Quantity,
		order.Price.InexactFloat64(),
	}}
	if err := c.update(ctx, c.rowRange(c.cfg.OrdersWorksheet, "B", "G", target), values); err != nil {
		return c.fail("append order", err)
	}
	c.cache.Invalidate()
	return nil
}

// UpdateOrder overwrites product, brand, quantity and price in place.
func (c *Client) UpdateOrder(ctx context.Context, row int, item orders.LineItem) error {
	if row < 2 {
		return shared.ErrInvalidInput
	}
	values := [][]interface{}{{
		item.Product,
		item.Brand,
		item.Quantity,
		item.Price.InexactFloat64(),
	}}
	if err := c.update(ctx, c.rowRange(c.cfg.OrdersWorksheet, "D", "G", row), values); err != nil {
		return c.fail("update order", err)
	}
	c.cache.Invalidate()
	return nil
}

// SoftDeleteOrder blanks date and data fields, keeping the serial
// column so the row remains addressable and restorable.
func (c *Client) SoftDeleteOrder(ctx context.Context, row int) error {
	if row < 2 {
		return shared.ErrInvalidInput
	}
	values := [][]interface{}{{"", "", "", "", "", ""}}
	if err := c.update(ctx, c.rowRange(c.cfg.OrdersWorksheet, "B", "G", row), values); err != nil {
		return c.fail("delete order", err)
	}
	c.cache.Invalidate()
	return nil
}

// RestoreOrder rewrites the blanked fields from the caller's snapshot.
func (c *Client) RestoreOrder(ctx context.Context, row int, snap orders.Snapshot) error {
	if row < 2 {
		return shared.ErrInvalidInput
	}
	values := [][]interface{}{{
		snap.Date,
		snap.Company,
		snap.Product,
		snap.Brand,
		snap.Quantity,
		snap.Price,
	}}
	if err := c.update(ctx, c.rowRange(c.cfg.OrdersWorksheet, "B", "G", row), values); err != nil {
		return c.fail("restore order", err)
	}
	c.cache.Invalidate()
	return nil
}

// AppendDispatch appends one dispatch entry with today's date.
func (c *Client) AppendDispatch(ctx context.Context, d orders.NewDispatch) error {
	vr := &sheetsapi.ValueRange{
		Values: [][]interface{}{{
			c.now().Format(dateLayout),
			d.Company,
			d.Product,
			d.Quantity,
			d.Serial,
		}},
	}
	err := c.withRetry(ctx, func() error {
		_, err := c.svc.Spreadsheets.Values.
			Append(c.cfg.SpreadsheetID, c.gridRange(c.cfg.DispatchWorksheet, "A:E"), vr).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return c.fail("append dispatch", err)
	}
	c.cache.Invalidate()
	return nil
}

// --- plumbing ---

func (c *Client) ensureDispatchWorksheet(ctx context.Context) error {
	var ss *sheetsapi.Spreadsheet
	err := c.withRetry(ctx, func() error {
		var err error
		ss, err = c.svc.Spreadsheets.Get(c.cfg.SpreadsheetID).Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}

	for _, sheet := range ss.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == c.cfg.DispatchWorksheet {
			return nil
		}
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{
					Title: c.cfg.DispatchWorksheet,
					GridProperties: &sheetsapi.GridProperties{
						RowCount:    1000,
						ColumnCount: 10,
					},
				},
			},
		}},
	}
	err = c.withRetry(ctx, func() error {
		_, err := c.svc.Spreadsheets.BatchUpdate(c.cfg.SpreadsheetID, req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return err
	}

	vr := &sheetsapi.ValueRange{Values: [][]interface{}{dispatchHeader}}
	return c.withRetry(ctx, func() error {
		_, err := c.svc.Spreadsheets.Values.
			Append(c.cfg.SpreadsheetID, c.gridRange(c.cfg.DispatchWorksheet, "A:E"), vr).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		return err
	})
}

func (c *Client) cachedGrid(ctx context.Context, key, rangeStr string) ([][]string, error) {
	return c.cache.Get(key, func() ([][]string, error) {
		return c.readGrid(ctx, rangeStr)
	})
}

func (c *Client) readGrid(ctx context.Context, rangeStr string) ([][]string, error) {
	var vr *sheetsapi.ValueRange
	err := c.withRetry(ctx, func() error {
		var err error
		vr, err = c.svc.Spreadsheets.Values.
			Get(c.cfg.SpreadsheetID, rangeStr).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, err
	}

	grid := make([][]string, len(vr.Values))
	for i, row := range vr.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		grid[i] = cells
	}
	return grid, nil
}

func (c *Client) update(ctx context.Context, rangeStr string, values [][]interface{}) error {
	vr := &sheetsapi.ValueRange{Values: values}
	return c.withRetry(ctx, func() error {
		_, err := c.svc.Spreadsheets.Values.
			Update(c.cfg.SpreadsheetID, rangeStr, vr).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		return err
	})
}

// withRetry runs fn up to the configured attempt count, sleeping
// 2^attempt seconds plus jitter between transient failures.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < c.cfg.RetryAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if !isTransient(err) || attempt == c.cfg.RetryAttempts-1 {
			return err
		}
		backoff := time.Duration(1<<attempt)*time.Second + rand.N(time.Second)
		c.log.Warn("transient sheets error, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}

func (c *Client) fail(op string, err error) error {
	c.log.Error("sheets operation failed", zap.String("op", op), zap.Error(err))
	return shared.ErrBackendUnavailable
}

func (c *Client) gridRange(worksheet, cols string) string {
	return fmt.Sprintf("'%s'!%s", worksheet, cols)
}

func (c *Client) rowRange(worksheet, fromCol, toCol string, row int) string {
	return fmt.Sprintf("'%s'!%s%d:%s%d", worksheet, fromCol, row, toCol, row)
}

func isTransient(err error) bool {
	if apiErr, ok := err.(*googleapi.Error); ok {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	// non-API errors are network-level, worth another attempt
	return true
}

func isMissingRange(err error) bool {
	if apiErr, ok := err.(*googleapi.Error); ok {
		return apiErr.Code == 400 || apiErr.Code == 404
	}
	return false
}

// firstFreeRow returns the 1-indexed sheet row of the first data row
// whose date cell is blank (a soft-deleted slot), or the row just past
// the end of the grid.
func firstFreeRow(grid [][]string) int {
	for i := 1; i < len(grid); i++ {
		if strings.TrimSpace(cell(grid[i], 1)) == "" {
			return i + 1
		}
	}
	return len(grid) + 1
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

var _ orders.Repository = (*Client)(nil)

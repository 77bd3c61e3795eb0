package orders

import (
	"context"
	"time"
)

// Repository is the persistence contract for the order book. The only
// implementation talks to a remote spreadsheet; reads are full-table
// scans and writes address individual rows.
type Repository interface {
	// OrderRows returns every data row of the orders worksheet,
	// including soft-deleted slots (callers filter on Deleted).
	OrderRows(ctx context.Context) ([]OrderRow, error)

	// DispatchRows returns every data row of the dispatch worksheet.
	DispatchRows(ctx context.Context) ([]DispatchRow, error)

	// Lists returns the product/company/brand reference lists.
	Lists(ctx context.Context) (ReferenceLists, error)

	// AppendOrder writes the order into the first row with a blank
	// date, or past the last row when no gap exists.
	AppendOrder(ctx context.Context, order NewOrder) error

	// UpdateOrder overwrites product, brand, quantity and price for
	// the given sheet row.
	UpdateOrder(ctx context.Context, row int, item LineItem) error

	// SoftDeleteOrder blanks the mutable fields of the row, leaving
	// the serial column untouched so the row stays addressable.
	SoftDeleteOrder(ctx context.Context, row int) error

	// RestoreOrder rewrites the previously blanked fields from the
	// caller-supplied snapshot.
	RestoreOrder(ctx context.Context, row int, snap Snapshot) error

	// AppendDispatch appends a dispatch entry. Dispatch rows are
	// never updated or deleted.
	AppendDispatch(ctx context.Context, d NewDispatch) error
}

// DedupStore remembers recently seen submission fingerprints.
// MarkSeen returns true when the fingerprint is new within ttl and
// records it; false means an identical submission landed moments ago.
// Implementations are best-effort: an in-memory bounded window for a
// single instance, or a shared TTL key-value store when several
// instances run behind one sheet.
type DedupStore interface {
	MarkSeen(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error)
	Close() error
}

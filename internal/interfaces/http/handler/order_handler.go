package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	apporders "github.com/orderdesk/backend/internal/application/orders"
	"github.com/orderdesk/backend/internal/domain/orders"
)

const (
	dashboardRecentLimit = 50
	apiRecentLimit       = 15
)

// OrderHandler serves the order entry page and the row-level order
// mutations (submit, edit, soft delete, undo).
type OrderHandler struct {
	BaseHandler
	orders    *apporders.OrderService
	reports   *apporders.ReportService
	rateLimit gin.HandlerFunc
}

// NewOrderHandler creates a new OrderHandler. rateLimit guards the
// read API and may be nil.
func NewOrderHandler(orderSvc *apporders.OrderService, reportSvc *apporders.ReportService, rateLimit gin.HandlerFunc) *OrderHandler {
	return &OrderHandler{
		orders:    orderSvc,
		reports:   reportSvc,
		rateLimit: rateLimit,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Dashboard)
	rg.POST("/submit", h.Submit)

	api := rg.Group("/api")
	{
		readAPI := api.Group("")
		if h.rateLimit != nil {
			readAPI.Use(h.rateLimit)
		}
		readAPI.GET("/recent_orders", h.RecentOrders)

		api.POST("/update_order", h.UpdateOrder)
		api.POST("/delete_order", h.DeleteOrder)
		api.POST("/undo_delete_order", h.UndoDeleteOrder)
	}
}

// Dashboard returns the entry-page payload: reference lists for the
// form dropdowns plus the recent orders table.
func (h *OrderHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	lists, err := h.reports.Lists(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	recent, err := h.reports.RecentOrders(ctx, dashboardRecentLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"products":      lists.Products,
		"companies":     lists.Companies,
		"brands":        lists.Brands,
		"recent_orders": recent,
	})
}

// Submit accepts the multi-line order form and redirects back to the
// entry page on success.
func (h *OrderHandler) Submit(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.BadRequest(c, "malformed form body")
		return
	}

	if _, err := h.orders.Submit(c.Request.Context(), c.Request.PostForm); err != nil {
		h.HandleError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// RecentOrders returns the latest live rows for the inline edit
// table, with GST-inclusive totals.
func (h *OrderHandler) RecentOrders(c *gin.Context) {
	recent, err := h.reports.RecentOrdersTaxInclusive(c.Request.Context(), apiRecentLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"orders": recent})
}

type updateOrderRequest struct {
	Row      int         `json:"row" binding:"required,sheetrow"`
	Product  string      `json:"product" binding:"required"`
	Brand    string      `json:"brand"`
	Quantity int         `json:"quantity" binding:"required"`
	Price    json.Number `json:"price" binding:"required"`
}

// UpdateOrder overwrites one row's product, brand, quantity and price.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "row, product, quantity and price are required")
		return
	}

	err := h.orders.Update(c.Request.Context(), req.Row, req.Product, req.Brand, req.Quantity, req.Price.String())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"row": req.Row})
}

type deleteOrderRequest struct {
	Row int `json:"row" binding:"required,sheetrow"`
}

// DeleteOrder soft-deletes a row and returns its snapshot so the
// client can offer an undo.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	var req deleteOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "row is required")
		return
	}

	snap, err := h.orders.Delete(c.Request.Context(), req.Row)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"row": req.Row, "snapshot": snap})
}

type undoDeleteRequest struct {
	Row      int             `json:"row" binding:"required,sheetrow"`
	Snapshot orders.Snapshot `json:"snapshot" binding:"required"`
}

// UndoDeleteOrder restores a soft-deleted row from its snapshot.
func (h *OrderHandler) UndoDeleteOrder(c *gin.Context) {
	var req undoDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "row and snapshot are required")
		return
	}

	if err := h.orders.Restore(c.Request.Context(), req.Row, req.Snapshot); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"row": req.Row})
}

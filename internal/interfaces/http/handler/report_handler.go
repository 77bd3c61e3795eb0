package handler

import (
	"github.com/gin-gonic/gin"
	apporders "github.com/orderdesk/backend/internal/application/orders"
)

// ReportHandler serves the pending-order views: per-product and
// per-party queries, the pivot matrix and the lookup lists behind the
// reporting page. All read APIs sit behind the rate limiter.
type ReportHandler struct {
	BaseHandler
	reports   *apporders.ReportService
	rateLimit gin.HandlerFunc
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportSvc *apporders.ReportService, rateLimit gin.HandlerFunc) *ReportHandler {
	return &ReportHandler{
		reports:   reportSvc,
		rateLimit: rateLimit,
	}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders", h.OrdersPage)

	api := rg.Group("/api")
	if h.rateLimit != nil {
		api.Use(h.rateLimit)
	}
	{
		api.GET("/products", h.Products)
		api.GET("/companies", h.Companies)
		api.GET("/orders_by_product", h.OrdersByProduct)
		api.GET("/orders_by_party", h.OrdersByParty)
		api.GET("/pivot_data", h.PivotData)
		api.GET("/parties_with_pending", h.PartiesWithPending)
		api.GET("/products_with_pending", h.ProductsWithPending)
	}
}

// OrdersPage returns the payload for the pending-view page: the
// products and parties that still have something outstanding.
func (h *ReportHandler) OrdersPage(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := h.reports.ProductsWithPending(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	parties, err := h.reports.PartiesWithPending(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"products": products, "parties": parties})
}

// Products returns the product reference list.
func (h *ReportHandler) Products(c *gin.Context) {
	lists, err := h.reports.Lists(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"products": lists.Products})
}

// Companies returns the company reference list.
func (h *ReportHandler) Companies(c *gin.Context) {
	lists, err := h.reports.Lists(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"companies": lists.Companies})
}

// OrdersByProduct returns pending lines for one product.
func (h *ReportHandler) OrdersByProduct(c *gin.Context) {
	product := c.Query("product")
	if product == "" {
		h.BadRequest(c, "product query parameter is required")
		return
	}

	lines, err := h.reports.OrdersByProduct(c.Request.Context(), product)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"orders": lines})
}

// OrdersByParty returns pending lines for one company.
func (h *ReportHandler) OrdersByParty(c *gin.Context) {
	company := c.Query("company")
	if company == "" {
		h.BadRequest(c, "company query parameter is required")
		return
	}

	lines, err := h.reports.OrdersByParty(c.Request.Context(), company)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"orders": lines})
}

// PivotData returns the company x product pending matrix.
func (h *ReportHandler) PivotData(c *gin.Context) {
	pivot, err := h.reports.PivotData(c.Request.Context(), c.Query("product_filter"), c.Query("party_filter"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pivot)
}

// PartiesWithPending returns all companies with outstanding orders.
func (h *ReportHandler) PartiesWithPending(c *gin.Context) {
	parties, err := h.reports.PartiesWithPending(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"parties": parties})
}

// ProductsWithPending returns all products with outstanding orders.
func (h *ReportHandler) ProductsWithPending(c *gin.Context) {
	products, err := h.reports.ProductsWithPending(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"products": products})
}

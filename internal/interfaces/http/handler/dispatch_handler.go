package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apporders "github.com/orderdesk/backend/internal/application/orders"
	"github.com/orderdesk/backend/internal/interfaces/http/dto"
)

// DispatchHandler serves the dispatch page and the batch save.
type DispatchHandler struct {
	BaseHandler
	dispatch *apporders.DispatchService
	reports  *apporders.ReportService
}

// NewDispatchHandler creates a new DispatchHandler
func NewDispatchHandler(dispatchSvc *apporders.DispatchService, reportSvc *apporders.ReportService) *DispatchHandler {
	return &DispatchHandler{
		dispatch: dispatchSvc,
		reports:  reportSvc,
	}
}

// RegisterRoutes registers dispatch routes
func (h *DispatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dispatch", h.Page)
	rg.POST("/dispatch/save", h.Save)
}

// Page returns the dispatch-page payload: the reference lists backing
// its entry form.
func (h *DispatchHandler) Page(c *gin.Context) {
	lists, err := h.reports.Lists(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"products":  lists.Products,
		"companies": lists.Companies,
	})
}

type dispatchSaveRequest struct {
	Dispatches []apporders.DispatchInput `json:"dispatches" binding:"required"`
}

// Save appends a batch of dispatch entries. A batch where nothing
// could be written is reported as a validation failure.
func (h *DispatchHandler) Save(c *gin.Context) {
	var req dispatchSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "dispatches array is required")
		return
	}

	result, err := h.dispatch.SaveBatch(c.Request.Context(), req.Dispatches)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Written == 0 {
		c.JSON(http.StatusBadRequest, dto.Response{
			Success: false,
			Data:    result,
			Error: &dto.ErrorInfo{
				Code:      dto.ErrCodeValidation,
				Message:   "no dispatch entries could be written",
				RequestID: getRequestID(c),
			},
		})
		return
	}
	h.Success(c, result)
}

package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/alankar-api/internal/application/service"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/request"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/response"
)

// InvoiceHandler serves the print-only bill page
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Print renders the bill as HTML that opens the print dialog once loaded
func (h *InvoiceHandler) Print(c *gin.Context) {
	var req request.PrintInvoiceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	opts := service.InvoiceOptions{
		ShowRate:     req.ShowRate,
		ShowDiscount: req.ShowDiscount,
		AutoPrint:    req.AutoPrint == nil || *req.AutoPrint,
		Copies:       req.Copies,
	}

	var buf bytes.Buffer
	if err := h.invoiceService.RenderBill(c.Request.Context(), c.Param("id"), opts, &buf); err != nil {
		response.Error(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

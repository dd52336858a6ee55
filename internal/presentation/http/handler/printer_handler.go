package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/alankar-api/internal/application/service"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// PrintBill prints the thermal receipt of a bill.
func (h *PrinterHandler) PrintBill(c *gin.Context) {
	receipt, err := h.printerService.PrintBillReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		// The receipt is still useful when only the printer failed
		if receipt != nil {
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill receipt printed successfully", gin.H{"receipt": receipt})
}

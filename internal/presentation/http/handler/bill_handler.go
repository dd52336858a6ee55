package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/sangkips/alankar-api/internal/application/service"
	"github.com/sangkips/alankar-api/internal/domain/billing"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/adapter"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/request"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/response"
	"github.com/sangkips/alankar-api/pkg/pagination"
	"github.com/sangkips/alankar-api/pkg/utils"
)

// BillHandler handles bill-related HTTP requests
type BillHandler struct {
	billService   *service.BillService
	exportService *service.ExportService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService, exportService *service.ExportService) *BillHandler {
	return &BillHandler{billService: billService, exportService: exportService}
}

func toItemInputs(items []request.BillItemRequest) []service.BillItemInput {
	if items == nil {
		return nil
	}
	out := make([]service.BillItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, service.BillItemInput{
			ID:               it.ID,
			Name:             it.Name,
			WeightGrams:      it.WeightGrams,
			RatePer10g:       it.RatePer10g,
			MakingCharge:     it.MakingCharge,
			MakingChargeType: it.MakingChargeType,
			Discount:         it.Discount,
		})
	}
	return out
}

func toPaymentInputs(payments []request.PaymentRequest) []service.PaymentInput {
	if payments == nil {
		return nil
	}
	out := make([]service.PaymentInput, 0, len(payments))
	for _, p := range payments {
		out = append(out, service.PaymentInput{
			ID:          p.ID,
			Amount:      p.Amount,
			Mode:        p.Mode,
			Date:        p.Date.Ptr(),
			ReferenceID: p.ReferenceID,
		})
	}
	return out
}

// clientTotals collects whatever totals the client sent. A missing paid or
// due figure is derived from the other two.
func clientTotals(req *request.BillRequest) *billing.Totals {
	if req.TotalAmount == nil {
		return nil
	}
	t := &billing.Totals{TotalAmount: *req.TotalAmount}
	switch {
	case req.TotalPaid != nil && req.BalanceDue != nil:
		t.TotalPaid, t.BalanceDue = *req.TotalPaid, *req.BalanceDue
	case req.BalanceDue != nil:
		t.BalanceDue = *req.BalanceDue
		t.TotalPaid = billing.PaidFromDue(t.TotalAmount, t.BalanceDue)
	case req.TotalPaid != nil:
		t.TotalPaid = *req.TotalPaid
		t.BalanceDue = billing.PaidFromDue(t.TotalAmount, t.TotalPaid)
	default:
		return nil
	}
	return t
}

// decodeBill reads the body in the shape named by X-Schema-Version and
// validates the canonical result.
func decodeBill(c *gin.Context) (*request.BillRequest, adapter.SchemaVersion, bool) {
	version, ok := schemaVersion(c)
	if !ok {
		return nil, "", false
	}

	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		return nil, "", false
	}
	req, err := adapter.DecodeBill(version, body)
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		return nil, "", false
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		respondBindError(c, err)
		return nil, "", false
	}
	return req, version, true
}

// Search handles POST /bills/getBills
func (h *BillHandler) Search(c *gin.Context) {
	version, ok := schemaVersion(c)
	if !ok {
		return
	}

	// An empty body lists everything
	var req request.BillSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	input := &service.BillSearchInput{
		Pagination: pagination.PaginationParams{Page: req.Page, Limit: req.Limit},
		Search:     req.Search,
		BillID:     req.BillID,
		StartDate:  req.StartDate.Ptr(),
		EndDate:    req.EndDate.Ptr(),
	}
	if req.CustomerID != "" {
		id, err := utils.ParseUUID(req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		input.CustomerID = &id
	}

	result, err := h.billService.SearchBills(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if version == adapter.Canonical {
		response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
		return
	}
	shaped := pagination.NewPaginatedResult(adapter.EncodeBills(version, result.Items), result.Pagination)
	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", shaped)
}

// PreviewTotals prices rows that are still being edited
func (h *BillHandler) PreviewTotals(c *gin.Context) {
	var req request.TotalsPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	preview := h.billService.PreviewTotals(toItemInputs(req.Items), toPaymentInputs(req.Payments))
	response.OK(c, "Totals computed", preview)
}

// Create handles creating a bill
func (h *BillHandler) Create(c *gin.Context) {
	req, version, ok := decodeBill(c)
	if !ok {
		return
	}

	customerID, err := utils.ParseUUID(req.CustomerID)
	if err != nil {
		customerID = uuid.Nil
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), &service.CreateBillInput{
		CustomerID:   customerID,
		BillDate:     req.BillDate.Ptr(),
		Items:        toItemInputs(req.Items),
		Payments:     toPaymentInputs(req.Payments),
		ClientTotals: clientTotals(req),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill added successfully", adapter.EncodeBill(version, bill))
}

// Get handles getting a single bill
func (h *BillHandler) Get(c *gin.Context) {
	version, ok := schemaVersion(c)
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", adapter.EncodeBill(version, bill))
}

// Update handles a partial bill update
func (h *BillHandler) Update(c *gin.Context) {
	req, version, ok := decodeBill(c)
	if !ok {
		return
	}

	input := &service.UpdateBillInput{
		ID:           c.Param("id"),
		BillDate:     req.BillDate.Ptr(),
		Items:        toItemInputs(req.Items),
		Payments:     toPaymentInputs(req.Payments),
		ClientTotals: clientTotals(req),
	}
	if req.CustomerID != "" {
		id, err := utils.ParseUUID(req.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		input.CustomerID = &id
	}

	bill, err := h.billService.UpdateBill(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill updated successfully", adapter.EncodeBill(version, bill))
}

// Delete handles deleting a bill
func (h *BillHandler) Delete(c *gin.Context) {
	if err := h.billService.DeleteBill(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill deleted successfully", nil)
}

// Export streams bills dated in the range as an xlsx workbook
func (h *BillHandler) Export(c *gin.Context) {
	var req request.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	start, err := parseDay(req.StartDate)
	if err != nil {
		response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}
	end, err := parseDay(req.EndDate)
	if err != nil {
		response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.WriteBills(c.Request.Context(), start, end, &buf); err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", service.ExportFileName(time.Now())))
	c.Data(http.StatusOK, service.ExportContentType, buf.Bytes())
}

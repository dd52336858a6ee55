package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/alankar-api/internal/application/service"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/request"
	"github.com/sangkips/alankar-api/internal/presentation/http/dto/response"
	"github.com/sangkips/alankar-api/pkg/pagination"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers with an optional free-text query
func (h *CustomerHandler) List(c *gin.Context) {
	var req request.CustomerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &pagination.PaginationParams{Page: req.Page, Limit: req.Limit}
	result, err := h.customerService.ListCustomers(c.Request.Context(), params, req.Query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		Name:    req.Name,
		Phones:  req.Phone,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer added successfully", customer)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Update handles a partial customer update
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}

	var req request.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	input := &service.UpdateCustomerInput{
		ID:      id,
		Name:    req.Name,
		Address: req.Address,
	}
	if req.Phone != nil {
		input.Phones = append([]string{}, (*req.Phone)...)
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// DeleteWarning returns the confirmation prompt to show before deleting
func (h *CustomerHandler) DeleteWarning(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}

	warning, err := h.customerService.GetDeletionWarning(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Deletion warning retrieved", gin.H{"warning": warning})
}

// Delete handles deleting a customer and their bills
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id", "customer")
	if !ok {
		return
	}

	result, err := h.customerService.DeleteCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer deleted successfully", result)
}

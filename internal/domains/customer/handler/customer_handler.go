package handler

import (
	"errors"
	"net/http"

	"partshub-backend/internal/domains/customer/model"
	"partshub-backend/internal/domains/customer/service"
	"partshub-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomerHandler struct {
	service service.ServiceInterface
}

func NewCustomerHandler(service service.ServiceInterface) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// List handles GET /api/v1/customers
func (h *CustomerHandler) List(c *gin.Context) {
	var req model.ListCustomersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	customers, total, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, "Failed to list customers: "+err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Customers retrieved successfully", customers, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// GetByID handles GET /api/v1/customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID format")
		return
	}

	customer, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrCustomerNotFound) {
			response.NotFound(c, "Customer not found")
			return
		}
		response.InternalServerError(c, "Failed to get customer: "+err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Customer retrieved successfully", customer)
}

// Create handles POST /api/v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req model.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	customer, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicateCode):
			response.Conflict(c, err.Error())
		case errors.Is(err, model.ErrCustomerNameRequired):
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, "Failed to create customer: "+err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, "Customer created successfully", customer)
}

// Update handles PUT /api/v1/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req model.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	customer, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCustomerNotFound):
			response.NotFound(c, "Customer not found")
		case errors.Is(err, model.ErrDuplicateCode):
			response.Conflict(c, err.Error())
		case errors.Is(err, model.ErrCustomerNameRequired):
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, "Failed to update customer: "+err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, "Customer updated successfully", customer)
}

// Delete handles DELETE /api/v1/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrCustomerNotFound) {
			response.NotFound(c, "Customer not found")
			return
		}
		response.InternalServerError(c, "Failed to delete customer: "+err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Customer deleted successfully", nil)
}

package handler

import (
	"errors"
	"net/http"

	customerModel "partshub-backend/internal/domains/customer/model"
	productModel "partshub-backend/internal/domains/product/model"
	"partshub-backend/internal/domains/quote/model"
	"partshub-backend/internal/domains/quote/service"
	"partshub-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuoteHandler struct {
	service service.ServiceInterface
}

func NewQuoteHandler(service service.ServiceInterface) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// List handles GET /api/v1/quotes
func (h *QuoteHandler) List(c *gin.Context) {
	var req model.ListQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	quotes, total, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidStatus) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalServerError(c, "Failed to list quotes: "+err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Quotes retrieved successfully", quotes, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// GetByID handles GET /api/v1/quotes/:id
func (h *QuoteHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quote ID format")
		return
	}

	quote, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrQuoteNotFound) {
			response.NotFound(c, "Quote not found")
			return
		}
		response.InternalServerError(c, "Failed to get quote: "+err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Quote retrieved successfully", quote)
}

// Create handles POST /api/v1/quotes
func (h *QuoteHandler) Create(c *gin.Context) {
	var req model.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	quote, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCustomerRequired):
			response.BadRequest(c, err.Error())
		case errors.Is(err, customerModel.ErrCustomerNotFound):
			response.NotFound(c, "Customer not found")
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, "Quote created successfully", quote)
}

// Update handles PUT /api/v1/quotes/:id
func (h *QuoteHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quote ID format")
		return
	}

	var req model.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	quote, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrQuoteNotFound):
			response.NotFound(c, "Quote not found")
		case errors.Is(err, model.ErrInvalidStatus):
			response.BadRequest(c, err.Error())
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, "Quote updated successfully", quote)
}

// Delete handles DELETE /api/v1/quotes/:id
func (h *QuoteHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quote ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrQuoteNotFound) {
			response.NotFound(c, "Quote not found")
			return
		}
		response.InternalServerError(c, "Failed to delete quote: "+err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Quote deleted successfully", nil)
}

// AddItem handles POST /api/v1/quotes/:id/items
func (h *QuoteHandler) AddItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quote ID format")
		return
	}

	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	quote, err := h.service.AddItem(c.Request.Context(), id, req)
	if err != nil {
		h.itemError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Quote item added successfully", quote)
}

// UpdateItem handles PUT /api/v1/quotes/:id/items/:itemId
func (h *QuoteHandler) UpdateItem(c *gin.Context) {
	id, itemID, ok := h.itemIDs(c)
	if !ok {
		return
	}

	var req model.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	quote, err := h.service.UpdateItem(c.Request.Context(), id, itemID, req)
	if err != nil {
		h.itemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Quote item updated successfully", quote)
}

// RemoveItem handles DELETE /api/v1/quotes/:id/items/:itemId
func (h *QuoteHandler) RemoveItem(c *gin.Context) {
	id, itemID, ok := h.itemIDs(c)
	if !ok {
		return
	}

	quote, err := h.service.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		h.itemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Quote item removed successfully", quote)
}

// Recompute handles POST /api/v1/quotes/:id/recompute
func (h *QuoteHandler) Recompute(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quote ID format")
		return
	}

	quote, err := h.service.Recompute(c.Request.Context(), id)
	if err != nil {
		h.itemError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Quote repriced successfully", quote)
}

func (h *QuoteHandler) itemIDs(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid quote ID format")
		return uuid.Nil, uuid.Nil, false
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid quote item ID format")
		return uuid.Nil, uuid.Nil, false
	}
	return id, itemID, true
}

func (h *QuoteHandler) itemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrQuoteNotFound):
		response.NotFound(c, "Quote not found")
	case errors.Is(err, model.ErrQuoteItemNotFound):
		response.NotFound(c, "Quote item not found")
	case errors.Is(err, productModel.ErrProductNotFound):
		response.NotFound(c, "Product not found")
	case errors.Is(err, customerModel.ErrCustomerNotFound):
		response.NotFound(c, "Customer not found")
	case errors.Is(err, model.ErrInvalidQuantity):
		response.BadRequest(c, err.Error())
	default:
		response.InternalServerError(c, "Quote operation failed: "+err.Error())
	}
}

package handler

import (
	"errors"
	"net/http"

	"partshub-backend/internal/domains/product/model"
	"partshub-backend/internal/domains/product/service"
	"partshub-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	service service.ServiceInterface
}

func NewProductHandler(service service.ServiceInterface) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	var req model.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	products, total, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, "Failed to list products: "+err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Products retrieved successfully", products, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// GetByID handles GET /api/v1/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.InternalServerError(c, "Failed to get product: "+err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Product retrieved successfully", product)
}

// GetBySKU handles GET /api/v1/products/by-sku/:sku
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	product, err := h.service.GetBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.InternalServerError(c, "Failed to get product: "+err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Product retrieved successfully", product)
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	product, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateSKU) {
			response.Conflict(c, "A product with this SKU already exists")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Product created successfully", product)
}

// Update handles PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID format")
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	product, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProductNotFound):
			response.NotFound(c, "Product not found")
		case errors.Is(err, model.ErrProductNameRequired):
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, "Failed to update product: "+err.Error())
		}
		return
	}

	response.Success(c, http.StatusOK, "Product updated successfully", product)
}

// Delete handles DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.InternalServerError(c, "Failed to delete product: "+err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Product deleted successfully", nil)
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"partshub-backend/internal/domains/crossref/model"
	"partshub-backend/internal/domains/crossref/service"
	importlogModel "partshub-backend/internal/domains/importlog/model"
	importlogRepo "partshub-backend/internal/domains/importlog/repository"
	productModel "partshub-backend/internal/domains/product/model"
	"partshub-backend/internal/shared"
	"partshub-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const confirmDeleteAll = "yes-delete-all"

type CrossRefHandler struct {
	crossRefService service.ServiceInterface
	importService   service.ImportServiceInterface
	logRepo         importlogRepo.RepositoryInterface
	asynqClient     *asynq.Client
}

func NewCrossRefHandler(
	crossRefService service.ServiceInterface,
	importService service.ImportServiceInterface,
	logRepo importlogRepo.RepositoryInterface,
	asynqClient *asynq.Client,
) *CrossRefHandler {
	return &CrossRefHandler{
		crossRefService: crossRefService,
		importService:   importService,
		logRepo:         logRepo,
		asynqClient:     asynqClient,
	}
}

func importedBy(c *gin.Context) *string {
	if userID := c.GetString(shared.ContextUserID); userID != "" {
		return &userID
	}
	return nil
}

// ============================================
// READS
// ============================================

// List handles GET /api/v1/cross-references
func (h *CrossRefHandler) List(c *gin.Context) {
	var req model.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	refs, total, err := h.crossRefService.List(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, "Failed to list cross references: "+err.Error())
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, "Cross references retrieved successfully",
		gin.H{"cross_references": refs},
		&response.Meta{Page: req.Page, Limit: req.Limit, Total: total})
}

// GetByID handles GET /api/v1/cross-references/:id
func (h *CrossRefHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid cross reference id")
		return
	}

	ref, err := h.crossRefService.GetByID(c.Request.Context(), id)
	if errors.Is(err, model.ErrCrossReferenceNotFound) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		response.InternalServerError(c, "Failed to load cross reference: "+err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Cross reference retrieved successfully", ref)
}

// Delete handles DELETE /api/v1/cross-references/:id
func (h *CrossRefHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid cross reference id")
		return
	}

	err = h.crossRefService.Delete(c.Request.Context(), id)
	if errors.Is(err, model.ErrCrossReferenceNotFound) {
		response.NotFound(c, err.Error())
		return
	}
	if err != nil {
		response.InternalServerError(c, "Failed to delete cross reference: "+err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Cross reference deleted successfully", nil)
}

// ============================================
// IMPORTS
// ============================================

// ImportBatch handles POST /api/v1/import-cross-references
func (h *CrossRefHandler) ImportBatch(c *gin.Context) {
	var req model.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	h.runImport(c, req, "api")
}

// ImportSingle handles POST /api/v1/import-cross-references/single.
// Delegates to the batch path with a one-element slice.
func (h *CrossRefHandler) ImportSingle(c *gin.Context) {
	var rec model.ImportRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	h.runImport(c, model.ImportRequest{
		CrossReferences: []model.ImportRecord{rec},
		Mode:            model.ModeUpsert,
	}, "api:single")
}

// ImportAsync handles POST /api/v1/import-cross-references/async.
// Enqueues the batch for the worker and returns 202 with the task id.
func (h *CrossRefHandler) ImportAsync(c *gin.Context) {
	if h.asynqClient == nil {
		response.InternalServerError(c, "Async imports are not configured")
		return
	}

	var req model.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	if len(req.CrossReferences) == 0 {
		response.BadRequest(c, model.ErrEmptyBatch.Error())
		return
	}

	payload, err := json.Marshal(model.ImportTaskPayload{
		Request:    req,
		ImportedBy: importedBy(c),
		Source:     "async",
	})
	if err != nil {
		response.InternalServerError(c, "Failed to encode import task: "+err.Error())
		return
	}

	info, err := h.asynqClient.EnqueueContext(c.Request.Context(),
		asynq.NewTask(shared.TypeImportCrossReferences, payload),
		asynq.Queue("default"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		response.InternalServerError(c, "Failed to enqueue import task: "+err.Error())
		return
	}

	response.Success(c, http.StatusAccepted, "Import queued", gin.H{
		"task_id": info.ID,
		"queue":   info.Queue,
	})
}

// ListLogs handles GET /api/v1/import-cross-references/logs?limit=N&type=T
func (h *CrossRefHandler) ListLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	targetType := c.DefaultQuery("type", importlogModel.TargetCrossReferences)
	if targetType == "all" {
		targetType = ""
	}

	logs, err := h.logRepo.List(c.Request.Context(), targetType, limit)
	if err != nil {
		response.InternalServerError(c, "Failed to list import logs: "+err.Error())
		return
	}

	response.Success(c, http.StatusOK, "Import logs retrieved successfully", gin.H{"logs": logs})
}

// DeleteAll handles DELETE /api/v1/import-cross-references/all.
// Requires confirm=yes-delete-all; without it nothing is deleted.
func (h *CrossRefHandler) DeleteAll(c *gin.Context) {
	if c.Query("confirm") != confirmDeleteAll {
		response.BadRequest(c, productModel.ErrConfirmationRequired.Error())
		return
	}

	deleted, err := h.importService.DeleteAll(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to delete cross references: "+err.Error())
		return
	}

	response.Success(c, http.StatusOK, fmt.Sprintf("Deleted %d cross references", deleted), nil)
}

func (h *CrossRefHandler) runImport(c *gin.Context, req model.ImportRequest, source string) {
	result, err := h.importService.ImportCrossReferences(c.Request.Context(), req, importedBy(c), source)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyBatch),
			errors.Is(err, model.ErrBatchTooLarge),
			errors.Is(err, model.ErrInvalidMode):
			response.BadRequest(c, err.Error())
		default:
			response.InternalServerError(c, "Import failed: "+err.Error())
		}
		return
	}

	message := fmt.Sprintf("Imported %d of %d cross references", result.Imported, len(req.CrossReferences))
	response.Success(c, http.StatusOK, message, result)
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	importlogModel "partshub-backend/internal/domains/importlog/model"
	importlogRepo "partshub-backend/internal/domains/importlog/repository"
	"partshub-backend/internal/domains/product/model"
	"partshub-backend/internal/domains/product/service"
	"partshub-backend/internal/infrastructure/storage"
	"partshub-backend/internal/shared"
	"partshub-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const confirmDeleteAll = "yes-delete-all"

// maxUploadSize bounds import file uploads (10 MB).
const maxUploadSize = 10 << 20

type ImportHandler struct {
	importService service.ImportServiceInterface
	logRepo       importlogRepo.RepositoryInterface
	storage       *storage.MinIOStorage
	asynqClient   *asynq.Client
}

func NewImportHandler(
	importService service.ImportServiceInterface,
	logRepo importlogRepo.RepositoryInterface,
	storage *storage.MinIOStorage,
	asynqClient *asynq.Client,
) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logRepo:       logRepo,
		storage:       storage,
		asynqClient:   asynqClient,
	}
}

func importedBy(c *gin.Context) *string {
	if userID := c.GetString(shared.ContextUserID); userID != "" {
		return &userID
	}
	return nil
}

// ImportBatch handles POST /api/v1/import-products
func (h *ImportHandler) ImportBatch(c *gin.Context) {
	var req model.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	h.runImport(c, req, "api")
}

// ImportSingle handles POST /api/v1/import-products/single.
// Delegates to the batch path with a one-element slice.
func (h *ImportHandler) ImportSingle(c *gin.Context) {
	var body struct {
		model.ImportRecord
		ImportPriceBreaks bool `json:"import_price_breaks,omitempty"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	h.runImport(c, model.ImportRequest{
		Products:          []model.ImportRecord{body.ImportRecord},
		Mode:              model.ModeUpsert,
		ImportPriceBreaks: body.ImportPriceBreaks,
	}, "api:single")
}

// ImportFile handles POST /api/v1/import-products/upload (multipart CSV/XLSX).
// The source file is archived to object storage so the batch can be traced.
func (h *ImportHandler) ImportFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing file upload field \"file\"")
		return
	}
	if fileHeader.Size > maxUploadSize {
		response.BadRequest(c, "Import file exceeds the 10MB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalServerError(c, "Failed to read uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalServerError(c, "Failed to read uploaded file: "+err.Error())
		return
	}

	records, err := h.importService.ParseImportFile(fileHeader.Filename, data)
	if err != nil {
		response.BadRequest(c, "Failed to parse import file: "+err.Error())
		return
	}

	source := "file:" + fileHeader.Filename
	if h.storage != nil {
		key := fmt.Sprintf("imports/products/%s/%s-%s",
			time.Now().UTC().Format("2006/01"), uuid.NewString(), fileHeader.Filename)
		if archived, err := h.storage.Upload(c.Request.Context(), key, data, fileHeader.Header.Get("Content-Type")); err == nil {
			source = "file:" + archived
		}
		// Archive failures are not fatal; the import proceeds.
	}

	mode := model.ImportMode(c.DefaultQuery("mode", string(model.ModeUpsert)))
	h.runImport(c, model.ImportRequest{
		Products:          records,
		Mode:              mode,
		ImportPriceBreaks: c.Query("import_price_breaks") == "true",
	}, source)
}

// ImportAsync handles POST /api/v1/import-products/async.
// Enqueues the batch for the worker and returns 202 with the task id.
func (h *ImportHandler) ImportAsync(c *gin.Context) {
	if h.asynqClient == nil {
		response.InternalServerError(c, "Async imports are not configured")
		return
	}

	var req model.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	if len(req.Products) == 0 {
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
		asynq.NewTask(shared.TypeImportProducts, payload),
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

// ListLogs handles GET /api/v1/import-products/logs?limit=N&type=T
func (h *ImportHandler) ListLogs(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	targetType := c.DefaultQuery("type", importlogModel.TargetProducts)
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

// DeleteAll handles DELETE /api/v1/import-products/all.
// Requires confirm=yes-delete-all; without it nothing is deleted.
func (h *ImportHandler) DeleteAll(c *gin.Context) {
	if c.Query("confirm") != confirmDeleteAll {
		response.BadRequest(c, model.ErrConfirmationRequired.Error())
		return
	}

	deleted, err := h.importService.DeleteAll(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to delete products: "+err.Error())
		return
	}

	response.Success(c, http.StatusOK, fmt.Sprintf("Deleted %d products", deleted), nil)
}

func (h *ImportHandler) runImport(c *gin.Context, req model.ImportRequest, source string) {
	result, err := h.importService.ImportProducts(c.Request.Context(), req, importedBy(c), source)
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

	message := fmt.Sprintf("Imported %d of %d products", result.Imported, len(req.Products))
	response.Success(c, http.StatusOK, message, result)
}

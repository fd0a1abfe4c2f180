package main

import (
	"github.com/hibiken/asynq"

	crossrefJob "partshub-backend/internal/domains/crossref/job"
	importlogJob "partshub-backend/internal/domains/importlog/job"
	productJob "partshub-backend/internal/domains/product/job"
	"partshub-backend/internal/shared"
	"partshub-backend/pkg/container"
)

// HandlerRegistry holds all task handlers.
type HandlerRegistry struct {
	importProducts *productJob.ImportProductsHandler
	importCrossRef *crossrefJob.ImportCrossReferencesHandler
	staleCheck     *importlogJob.StaleImportCheckHandler
}

func initializeHandlers(c *container.Container, cfg *WorkerConfig) *HandlerRegistry {
	return &HandlerRegistry{
		importProducts: productJob.NewImportProductsHandler(c.ProductImportService),
		importCrossRef: crossrefJob.NewImportCrossReferencesHandler(c.CrossRefImportService),
		staleCheck:     importlogJob.NewStaleImportCheckHandler(c.ImportLogRepo, cfg.StaleAfter),
	}
}

// RegisterHandlers wires the handlers onto the mux.
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeImportProducts, h.importProducts.ProcessTask)
	mux.HandleFunc(shared.TypeImportCrossReferences, h.importCrossRef.ProcessTask)
	mux.HandleFunc(shared.TypeStaleImportCheck, h.staleCheck.ProcessTask)
}

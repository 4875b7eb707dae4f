package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docmind/internal/app"
	"docmind/internal/extract"
	"docmind/internal/transport/http/response"
)

type DocumentHandler struct {
	ingestService  *app.IngestService
	maxUploadBytes int64
}

func NewDocumentHandler(ingestService *app.IngestService, maxUploadBytes int64) *DocumentHandler {
	return &DocumentHandler{
		ingestService:  ingestService,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload accepts a multipart form with "file" (PDF or TXT) and ingests it.
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > h.maxUploadBytes {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large")
		return
	}
	if !extract.Supported(file.Filename) {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "only PDF and TXT files are supported")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}

	doc, err := h.ingestService.Ingest(c.Request.Context(), file.Filename, data)
	if err != nil {
		if errors.Is(err, app.ErrInvalidDocument) {
			response.Error(c, http.StatusBadRequest, response.CodeInvalidDocument, err.Error())
			return
		}
		log.Printf("handler: upload of %s failed: %v", file.Filename, err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ingest failed: "+err.Error())
		return
	}
	response.OK(c, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	response.OK(c, h.ingestService.ListDocuments())
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	docID := c.Param("id")
	if docID == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id")
		return
	}
	if err := h.ingestService.DeleteDocument(c.Request.Context(), docID); err != nil {
		if errors.Is(err, app.ErrNotFound) {
			response.Error(c, http.StatusNotFound, response.CodeDocumentNotFound, "document not found")
			return
		}
		log.Printf("handler: delete of %s failed: %v", docID, err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete document failed")
		return
	}
	response.OK(c, gin.H{"deleted_document_id": docID})
}

// Reset deletes all documents and clears the vector index.
func (h *DocumentHandler) Reset(c *gin.Context) {
	if err := h.ingestService.Reset(c.Request.Context()); err != nil {
		log.Printf("handler: reset failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "reset failed")
		return
	}
	response.OK(c, gin.H{"message": "all documents deleted"})
}

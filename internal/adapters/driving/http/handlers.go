package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/archivo-labs/archivo-core/internal/core/domain"
	"github.com/archivo-labs/archivo-core/internal/core/ports/driving"
)

// maxUploadBytes caps multipart uploads; scanned archives run large
const maxUploadBytes = 100 << 20

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// UploadResponse is returned for queued uploads
// @Description Upload accepted for background processing
type UploadResponse struct {
	ID     string `json:"id"`
	Status string `json:"status" example:"queued"`
}

// ListResponse wraps a page of documents
type ListResponse struct {
	Documents []*domain.Document `json:"documents"`
	Count     int                `json:"count"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Checks database and queue connectivity
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleIssueToken godoc
// @Summary      Exchange an API key for a bearer token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.TokenRequest  true  "API key"
// @Success      200      {object}  domain.TokenResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid API key"
// @Router       /auth/token [post]
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req domain.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.IssueToken(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		writeError(w, http.StatusInternalServerError, "token issuance failed")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Document endpoints

// handleUploadDocument godoc
// @Summary      Upload a PDF for ingestion
// @Description  Stores the file and runs (or queues) extraction and tagging
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file    true   "PDF file"
// @Param        tags  formData  string  false  "Comma-separated manual tags"
// @Success      201   {object}  domain.Document  "Processed synchronously"
// @Success      202   {object}  UploadResponse   "Queued for background processing"
// @Failure      400   {object}  ErrorResponse    "Not a PDF or bad form"
// @Failure      422   {object}  ErrorResponse    "File is not a parsable PDF"
// @Router       /documents [post]
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "only PDF files are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	manualTags := splitTags(r.FormValue("tags"))

	storagePath, err := s.fileStore.Save(r.Context(), header.Filename, data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	documentID := uuid.NewString()

	if s.taskQueue != nil {
		task := domain.NewIngestTask(documentID, header.Filename, storagePath, strings.Join(manualTags, ","))
		if err := s.taskQueue.Enqueue(r.Context(), task); err != nil {
			writeError(w, http.StatusServiceUnavailable, "failed to queue ingestion")
			return
		}
		writeJSON(w, http.StatusAccepted, UploadResponse{ID: documentID, Status: "queued"})
		return
	}

	doc, err := s.ingestionService.Ingest(r.Context(), driving.IngestRequest{
		DocumentID:  documentID,
		Filename:    header.Filename,
		StoragePath: storagePath,
		Data:        data,
		ManualTags:  manualTags,
	})
	if err != nil {
		var malformed *domain.MalformedDocumentError
		if errors.As(err, &malformed) {
			writeError(w, http.StatusUnprocessableEntity, "file is not a parsable PDF")
			return
		}
		writeError(w, http.StatusInternalServerError, "ingestion failed")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// handleListDocuments godoc
// @Summary      List documents
// @Description  Newest first; filterable by substring and tag
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        query   query     string  false  "Substring of filename or text"
// @Param        tag     query     string  false  "Exact tag name"
// @Param        limit   query     int     false  "Page size"
// @Param        offset  query     int     false  "Page offset"
// @Success      200     {object}  ListResponse
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	filter := domain.DocumentFilter{
		Query:  r.URL.Query().Get("query"),
		Tag:    r.URL.Query().Get("tag"),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}

	docs, err := s.docService.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	if docs == nil {
		docs = []*domain.Document{}
	}

	writeJSON(w, http.StatusOK, ListResponse{Documents: docs, Count: len(docs)})
}

// handleGetDocument godoc
// @Summary      Get a document
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get document")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument godoc
// @Summary      Delete a document and its stored file
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id} [delete]
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.docService.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleReprocessDocument godoc
// @Summary      Re-run extraction and tagging for a document
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document  "Reprocessed synchronously"
// @Success      202  {object}  UploadResponse   "Queued for background processing"
// @Failure      404  {object}  ErrorResponse
// @Router       /documents/{id}/reprocess [post]
func (s *Server) handleReprocessDocument(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")

	// Existence check up front so a queued reprocess cannot 202 for a
	// document that is not there.
	if _, err := s.docService.Get(r.Context(), documentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get document")
		return
	}

	if s.taskQueue != nil {
		task := domain.NewReprocessTask(documentID)
		if err := s.taskQueue.Enqueue(r.Context(), task); err != nil {
			writeError(w, http.StatusServiceUnavailable, "failed to queue reprocessing")
			return
		}
		writeJSON(w, http.StatusAccepted, UploadResponse{ID: documentID, Status: "queued"})
		return
	}

	doc, err := s.ingestionService.Reprocess(r.Context(), documentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reprocessing failed")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Tag endpoints

// ConfirmTagsRequest is the body for tag confirmation
type ConfirmTagsRequest struct {
	Tags []string `json:"tags"`
}

// handleConfirmTags godoc
// @Summary      Confirm manual tags on a document
// @Description  Promotes matching suggestions; confirmed terms feed the vocabulary
// @Tags         Tags
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true  "Document ID"
// @Param        request  body      ConfirmTagsRequest  true  "Tag names"
// @Success      200      {object}  domain.Document
// @Failure      404      {object}  ErrorResponse
// @Router       /documents/{id}/tags [post]
func (s *Server) handleConfirmTags(w http.ResponseWriter, r *http.Request) {
	var req ConfirmTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Tags) == 0 {
		writeError(w, http.StatusBadRequest, "tags are required")
		return
	}

	doc, err := s.tagService.Confirm(r.Context(), r.PathValue("id"), req.Tags)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to confirm tags")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleRemoveTag godoc
// @Summary      Remove a tag from a document
// @Tags         Tags
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Document ID"
// @Param        name  path      string  true  "Tag name"
// @Success      200   {object}  domain.Document
// @Failure      404   {object}  ErrorResponse
// @Router       /documents/{id}/tags/{name} [delete]
func (s *Server) handleRemoveTag(w http.ResponseWriter, r *http.Request) {
	doc, err := s.tagService.Remove(r.Context(), r.PathValue("id"), r.PathValue("name"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document or tag not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to remove tag")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Helpers

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

func queryInt(r *http.Request, key string) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

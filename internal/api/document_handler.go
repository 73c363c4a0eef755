package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cvforge/internal/api/middleware"
	"cvforge/internal/database"
	"cvforge/internal/document"
	"cvforge/internal/pdf"
	"cvforge/internal/render"
	"cvforge/internal/storage"
	"cvforge/internal/tasks"
)

// DocumentHandler serves the document CRUD, preview and export endpoints.
type DocumentHandler struct {
	db           *gorm.DB
	asynqClient  *asynq.Client
	storage      *storage.Client
	maxDocuments int
}

// NewDocumentHandler builds the handler.
func NewDocumentHandler(db *gorm.DB, asynqClient *asynq.Client, storageClient *storage.Client, maxDocuments int) *DocumentHandler {
	return &DocumentHandler{
		db:           db,
		asynqClient:  asynqClient,
		storage:      storageClient,
		maxDocuments: maxDocuments,
	}
}

var errInvalidDocumentID = errors.New("invalid document id")

type createDocumentRequest struct {
	Title        string `json:"title" binding:"required,max=255"`
	Type         string `json:"type" binding:"required"`
	TemplateKey  string `json:"template_key"`
	ImportFromID *uint  `json:"import_from_id"`
}

type updateDocumentRequest struct {
	Title       *string         `json:"title"`
	Status      *string         `json:"status"`
	TemplateKey *string         `json:"template_key"`
	Content     *datatypes.JSON `json:"content"`
}

type documentListItem struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type documentResponse struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Type        string         `json:"type"`
	Status      string         `json:"status"`
	TemplateKey string         `json:"template_key"`
	Content     datatypes.JSON `json:"content"`
	PdfReady    bool           `json:"pdf_ready"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func newDocumentResponse(doc database.Document) documentResponse {
	return documentResponse{
		ID:          doc.ID,
		Title:       doc.Title,
		Type:        doc.Type,
		Status:      doc.Status,
		TemplateKey: doc.TemplateKey,
		Content:     doc.Content,
		PdfReady:    doc.PdfObjectKey != "",
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// CreateDocument creates a resume or cover letter, seeded either with blank
// default content for its type or copied from another document of the same
// type owned by the caller.
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if !document.ValidType(req.Type) {
		BadRequest(c, "unsupported document type")
		return
	}
	if !document.ValidTemplateKey(req.TemplateKey) {
		BadRequest(c, "unknown template key")
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	ctx := c.Request.Context()

	var count int64
	if err := h.db.WithContext(ctx).
		Model(&database.Document{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		Internal(c, "failed to count documents")
		return
	}
	if h.maxDocuments > 0 && count >= int64(h.maxDocuments) {
		Forbidden(c, "document limit reached")
		return
	}

	content, err := h.seedContent(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			NotFound(c, "source document not found")
		case errors.Is(err, errImportTypeMismatch):
			BadRequest(c, "source document has a different type")
		default:
			Internal(c, "failed to seed document content")
		}
		return
	}

	doc := database.Document{
		Title:       req.Title,
		Type:        req.Type,
		Status:      document.StatusDraft,
		TemplateKey: req.TemplateKey,
		Content:     content,
		UserID:      userID,
	}

	if err := h.db.WithContext(ctx).Create(&doc).Error; err != nil {
		Internal(c, "failed to create document")
		return
	}

	c.JSON(http.StatusCreated, newDocumentResponse(doc))
}

var errImportTypeMismatch = errors.New("import type mismatch")

// seedContent resolves the initial content for a new document. Imported
// content is re-encoded through the document codec so legacy shapes are
// upcast at the moment of copy.
func (h *DocumentHandler) seedContent(ctx context.Context, userID uint, req createDocumentRequest) (datatypes.JSON, error) {
	if req.ImportFromID == nil {
		var seed any
		switch req.Type {
		case document.TypeResume:
			seed = document.DefaultResumeContent()
		case document.TypeCoverLetter:
			seed = document.DefaultCoverLetterContent()
		default:
			return nil, fmt.Errorf("unknown document type %q", req.Type)
		}
		raw, err := json.Marshal(seed)
		if err != nil {
			return nil, err
		}
		return datatypes.JSON(raw), nil
	}

	var source database.Document
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", *req.ImportFromID, userID).
		First(&source).Error; err != nil {
		return nil, err
	}
	if source.Type != req.Type {
		return nil, errImportTypeMismatch
	}

	raw, err := document.Decode(source.Type, source.Content)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// ListDocuments returns the caller's documents, optionally filtered by type
// and status, newest first. Soft-deleted documents never appear.
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	query := h.db.WithContext(c.Request.Context()).Where("user_id = ?", userID)
	if docType := c.Query("type"); docType != "" {
		if !document.ValidType(docType) {
			BadRequest(c, "unsupported document type")
			return
		}
		query = query.Where("type = ?", docType)
	}
	if status := c.Query("status"); status != "" {
		if !document.ValidStatus(status) {
			BadRequest(c, "unknown document status")
			return
		}
		query = query.Where("status = ?", status)
	}

	var docs []database.Document
	if err := query.Order("updated_at DESC").Find(&docs).Error; err != nil {
		Internal(c, "failed to list documents")
		return
	}

	items := make([]documentListItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, documentListItem{
			ID:        d.ID,
			Title:     d.Title,
			Type:      d.Type,
			Status:    d.Status,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, items)
}

// GetDocument returns one document owned by the caller.
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	doc, err := h.getDocumentForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	c.JSON(http.StatusOK, newDocumentResponse(*doc))
}

// UpdateDocument applies partial updates. Content goes through the document
// codec, so malformed payloads are rejected and legacy shapes are re-encoded
// in the current schema before they hit the database.
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	var req updateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	doc, err := h.getDocumentForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	updates := map[string]any{}
	if req.Title != nil {
		if *req.Title == "" {
			BadRequest(c, "title must not be empty")
			return
		}
		updates["title"] = *req.Title
	}
	if req.Status != nil {
		if !document.ValidStatus(*req.Status) {
			BadRequest(c, "unknown document status")
			return
		}
		updates["status"] = *req.Status
	}
	if req.TemplateKey != nil {
		if !document.ValidTemplateKey(*req.TemplateKey) {
			BadRequest(c, "unknown template key")
			return
		}
		updates["template_key"] = *req.TemplateKey
	}
	if req.Content != nil {
		normalized, err := document.Decode(doc.Type, *req.Content)
		if err != nil {
			BadRequest(c, "invalid document content")
			return
		}
		updates["content"] = datatypes.JSON(normalized)
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, newDocumentResponse(*doc))
		return
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Model(doc).Updates(updates).Error; err != nil {
		Internal(c, "failed to update document")
		return
	}
	if err := h.db.WithContext(ctx).First(doc, doc.ID).Error; err != nil {
		Internal(c, "failed to reload document")
		return
	}

	c.JSON(http.StatusOK, newDocumentResponse(*doc))
}

// DeleteDocument soft-deletes a document. The row and its exported PDF stay
// around until the purge job runs, so recovery remains possible.
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	doc, err := h.getDocumentForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&database.Document{}, doc.ID).Error; err != nil {
		Internal(c, "failed to delete document")
		return
	}

	c.Status(http.StatusNoContent)
}

type previewDraftRequest struct {
	Type        string         `json:"type" binding:"required"`
	TemplateKey string         `json:"template_key"`
	Content     datatypes.JSON `json:"content" binding:"required"`
}

// PreviewDraft renders unsaved content into a preview tree. The editor calls
// this on every change, so nothing here touches the database.
func (h *DocumentHandler) PreviewDraft(c *gin.Context) {
	var req previewDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if !document.ValidType(req.Type) {
		BadRequest(c, "unsupported document type")
		return
	}
	if !document.ValidTemplateKey(req.TemplateKey) {
		BadRequest(c, "unknown template key")
		return
	}

	plan, tree, err := renderPreview(req.Type, req.TemplateKey, req.Content)
	if err != nil {
		BadRequest(c, "invalid document content")
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan, "tree": tree})
}

// PreviewDocument renders a stored document into a preview tree.
func (h *DocumentHandler) PreviewDocument(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	doc, err := h.getDocumentForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	plan, tree, err := renderPreview(doc.Type, doc.TemplateKey, doc.Content)
	if err != nil {
		Internal(c, "failed to render document")
		return
	}

	c.JSON(http.StatusOK, gin.H{"plan": plan, "tree": tree})
}

// ExportDocument renders and rasterizes the document in-request and streams
// the PDF back as an attachment. Slow but synchronous; the async path below
// is what the UI uses for big documents.
func (h *DocumentHandler) ExportDocument(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	doc, err := h.getDocumentForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	html, fileName, err := renderPrint(*doc)
	if err != nil {
		Internal(c, "failed to render document")
		return
	}

	pdfBytes, err := pdf.GeneratePDFFromHTML(html)
	if err != nil {
		Error(c, http.StatusBadGateway, "failed to rasterize document")
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// ExportDocumentAsync enqueues a PDF export task and returns 202.
func (h *DocumentHandler) ExportDocumentAsync(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	doc, err := h.getDocumentForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewPDFExportTask(doc.ID, correlationID)
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.MaxRetry(5))
	if err != nil {
		Internal(c, "failed to enqueue pdf export")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "PDF export request accepted",
		"task_id": info.ID,
	})
}

// GetDownloadLink returns a presigned URL for the last exported PDF, with the
// export file name baked into the content disposition.
func (h *DocumentHandler) GetDownloadLink(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortUnauthorized(c)
		return
	}

	doc, err := h.getDocumentForUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.replyLookupError(c, err)
		return
	}

	if doc.PdfObjectKey == "" {
		Conflict(c, "pdf not ready")
		return
	}

	fileName, err := exportFileName(*doc)
	if err != nil {
		Internal(c, "failed to render document")
		return
	}

	params := map[string]string{
		"response-content-disposition": mime.FormatMediaType("attachment", map[string]string{"filename": fileName}),
	}
	signedURL, err := h.storage.GeneratePresignedURLWithParams(c.Request.Context(), doc.PdfObjectKey, 5*time.Minute, params)
	if err != nil {
		Internal(c, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}

// GetPrintDocument serves the fully rendered print page for the worker. The
// route sits behind the internal secret middleware and is not owner scoped:
// the worker acts on behalf of whichever user queued the export.
func (h *DocumentHandler) GetPrintDocument(c *gin.Context) {
	docID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "invalid document id")
		return
	}

	var doc database.Document
	if err := h.db.WithContext(c.Request.Context()).First(&doc, uint(docID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "document not found")
			return
		}
		Internal(c, "failed to load document")
		return
	}

	html, _, err := renderPrint(doc)
	if err != nil {
		Internal(c, "failed to render document")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *DocumentHandler) getDocumentForUser(ctx context.Context, idParam string, userID uint) (*database.Document, error) {
	docID, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		return nil, errInvalidDocumentID
	}

	var doc database.Document
	if err := h.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", uint(docID), userID).
		First(&doc).Error; err != nil {
		return nil, err
	}

	return &doc, nil
}

func (h *DocumentHandler) replyLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errInvalidDocumentID):
		BadRequest(c, "invalid document id")
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "document not found")
	default:
		Internal(c, "failed to query document")
	}
}

// renderPreview decodes content by type and produces the plan and node tree.
func renderPreview(docType, templateKey string, raw []byte) (render.Plan, *render.Node, error) {
	switch docType {
	case document.TypeResume:
		content, err := document.DecodeResume(raw)
		if err != nil {
			return render.Plan{}, nil, err
		}
		plan := render.PlanResume(content, templateKey)
		return plan, render.PreviewResume(content, plan), nil
	case document.TypeCoverLetter:
		content, err := document.DecodeCoverLetter(raw)
		if err != nil {
			return render.Plan{}, nil, err
		}
		plan := render.PlanCoverLetter(content, templateKey)
		return plan, render.PreviewCoverLetter(content, plan), nil
	default:
		return render.Plan{}, nil, fmt.Errorf("unknown document type %q", docType)
	}
}

// renderPrint produces the print HTML and the export file name.
func renderPrint(doc database.Document) (html string, fileName string, err error) {
	switch doc.Type {
	case document.TypeResume:
		content, err := document.DecodeResume(doc.Content)
		if err != nil {
			return "", "", err
		}
		plan := render.PlanResume(content, doc.TemplateKey)
		html, err := render.PrintResume(doc.Title, content, plan)
		if err != nil {
			return "", "", err
		}
		return html, render.ResumeFileName(content), nil
	case document.TypeCoverLetter:
		content, err := document.DecodeCoverLetter(doc.Content)
		if err != nil {
			return "", "", err
		}
		plan := render.PlanCoverLetter(content, doc.TemplateKey)
		html, err := render.PrintCoverLetter(doc.Title, content, plan)
		if err != nil {
			return "", "", err
		}
		return html, render.CoverLetterFileName(content), nil
	default:
		return "", "", fmt.Errorf("unknown document type %q", doc.Type)
	}
}

func exportFileName(doc database.Document) (string, error) {
	switch doc.Type {
	case document.TypeResume:
		content, err := document.DecodeResume(doc.Content)
		if err != nil {
			return "", err
		}
		return render.ResumeFileName(content), nil
	case document.TypeCoverLetter:
		content, err := document.DecodeCoverLetter(doc.Content)
		if err != nil {
			return "", err
		}
		return render.CoverLetterFileName(content), nil
	default:
		return "", fmt.Errorf("unknown document type %q", doc.Type)
	}
}

func userIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case uint64:
		return uint(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}

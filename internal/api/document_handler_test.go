package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cvforge/internal/database"
	"cvforge/internal/document"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.User{}, &database.Document{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestRouter wires the document routes behind a stub auth middleware that
// injects the given user ID, mirroring the production route layout.
func newTestRouter(h *DocumentHandler, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/v1/documents")
	group.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	group.POST("", h.CreateDocument)
	group.GET("", h.ListDocuments)
	group.POST("/preview", h.PreviewDraft)
	group.GET("/:id", h.GetDocument)
	group.PUT("/:id", h.UpdateDocument)
	group.DELETE("/:id", h.DeleteDocument)
	group.GET("/:id/preview", h.PreviewDocument)
	group.GET("/:id/download-link", h.GetDownloadLink)

	router.GET("/v1/internal/documents/:id/print", h.GetPrintDocument)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedUser(t *testing.T, db *gorm.DB, username string) database.User {
	t.Helper()
	user := database.User{Username: username, PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedDocument(t *testing.T, db *gorm.DB, userID uint, docType, title string) database.Document {
	t.Helper()
	var content []byte
	var err error
	switch docType {
	case document.TypeResume:
		content, err = json.Marshal(document.DefaultResumeContent())
	case document.TypeCoverLetter:
		content, err = json.Marshal(document.DefaultCoverLetterContent())
	default:
		t.Fatalf("unknown type %q", docType)
	}
	if err != nil {
		t.Fatalf("marshal content: %v", err)
	}
	doc := database.Document{
		Title:   title,
		Type:    docType,
		Status:  document.StatusDraft,
		Content: datatypes.JSON(content),
		UserID:  userID,
	}
	if err := db.Create(&doc).Error; err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return doc
}

func TestCreateDocumentSeedsDefaults(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/v1/documents", gin.H{
		"title": "My Resume",
		"type":  document.TypeResume,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp documentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != document.StatusDraft {
		t.Fatalf("status = %q, want draft", resp.Status)
	}
	if resp.PdfReady {
		t.Fatal("new document reports pdf_ready")
	}

	content, err := document.DecodeResume(resp.Content)
	if err != nil {
		t.Fatalf("decode seeded content: %v", err)
	}
	if content.SchemaVersion != document.CurrentSchemaVersion {
		t.Fatalf("schema version = %d", content.SchemaVersion)
	}
	if content.Font != document.DefaultFont {
		t.Fatalf("font = %q", content.Font)
	}
}

func TestCreateDocumentRejectsBadType(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/v1/documents", gin.H{
		"title": "Nope",
		"type":  "flyer",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateDocumentEnforcesLimit(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	seedDocument(t, db, user.ID, document.TypeResume, "One")
	h := NewDocumentHandler(db, nil, nil, 1)
	router := newTestRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/v1/documents", gin.H{
		"title": "Two",
		"type":  document.TypeResume,
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestCreateDocumentImportCopiesContent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	source := seedDocument(t, db, user.ID, document.TypeResume, "Source")

	var content document.ResumeContent
	if err := json.Unmarshal(source.Content, &content); err != nil {
		t.Fatalf("unmarshal source: %v", err)
	}
	content.Profile.FirstName = "Ada"
	content.Profile.LastName = "Lovelace"
	raw, _ := json.Marshal(content)
	if err := db.Model(&source).Update("content", datatypes.JSON(raw)).Error; err != nil {
		t.Fatalf("update source: %v", err)
	}

	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/v1/documents", gin.H{
		"title":          "Copy",
		"type":           document.TypeResume,
		"import_from_id": source.ID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp documentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	copied, err := document.DecodeResume(resp.Content)
	if err != nil {
		t.Fatalf("decode copy: %v", err)
	}
	if copied.Profile.FirstName != "Ada" || copied.Profile.LastName != "Lovelace" {
		t.Fatalf("profile = %+v", copied.Profile)
	}
}

func TestCreateDocumentImportTypeMismatch(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	source := seedDocument(t, db, user.ID, document.TypeCoverLetter, "Letter")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPost, "/v1/documents", gin.H{
		"title":          "Copy",
		"type":           document.TypeResume,
		"import_from_id": source.ID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateDocumentImportIsOwnerScoped(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	source := seedDocument(t, db, bob.ID, document.TypeResume, "Bob's")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, alice.ID)

	rec := doJSON(t, router, http.MethodPost, "/v1/documents", gin.H{
		"title":          "Copy",
		"type":           document.TypeResume,
		"import_from_id": source.ID,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListDocumentsFiltersAndScoping(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedDocument(t, db, alice.ID, document.TypeResume, "Resume A")
	seedDocument(t, db, alice.ID, document.TypeCoverLetter, "Letter A")
	seedDocument(t, db, bob.ID, document.TypeResume, "Resume B")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, alice.ID)

	rec := doJSON(t, router, http.MethodGet, "/v1/documents", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var items []documentListItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/documents?type=resume", nil)
	items = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("unmarshal filtered list: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Resume A" {
		t.Fatalf("filtered items = %+v", items)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/documents?type=flyer", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d for bad type filter", rec.Code)
	}
}

func TestSoftDeletedDocumentsDisappear(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	doc := seedDocument(t, db, user.ID, document.TypeResume, "Gone Soon")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/v1/documents/%d", doc.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/documents/%d", doc.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/documents", nil)
	var items []documentListItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("deleted document still listed: %+v", items)
	}

	// The row survives for the purge job.
	var count int64
	if err := db.Unscoped().Model(&database.Document{}).Where("id = ?", doc.ID).Count(&count).Error; err != nil {
		t.Fatalf("count unscoped: %v", err)
	}
	if count != 1 {
		t.Fatalf("unscoped count = %d", count)
	}
}

func TestGetDocumentOwnerScoped(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	doc := seedDocument(t, db, bob.ID, document.TypeResume, "Bob's")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, alice.ID)

	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/documents/%d", doc.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateDocumentNormalizesContent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	doc := seedDocument(t, db, user.ID, document.TypeResume, "Resume")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, user.ID)

	// Flat skills are a legacy shape; the save path upcasts them to a group.
	content := document.DefaultResumeContent()
	raw, _ := json.Marshal(content)
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	payload["skills"] = []map[string]any{
		{"name": "Go", "level": 5},
		{"name": "SQL", "level": 3},
	}

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/v1/documents/%d", doc.ID), gin.H{
		"content": payload,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp documentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	updated, err := document.DecodeResume(resp.Content)
	if err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if !updated.Skills.Grouped() {
		t.Fatal("skills were not upcast to the grouped shape")
	}
	groups := updated.Skills.Groups
	if len(groups) != 1 || groups[0].Title != "Skills" {
		t.Fatalf("groups = %+v", groups)
	}
	if len(groups[0].Items) != 2 || groups[0].Items[0].Name != "Go" {
		t.Fatalf("items = %+v", groups[0].Items)
	}
}

func TestUpdateDocumentRejectsInvalidContent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	doc := seedDocument(t, db, user.ID, document.TypeResume, "Resume")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, user.ID)

	raw := json.RawMessage(`{"experience": "not an array"}`)
	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/v1/documents/%d", doc.ID), gin.H{
		"content": raw,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateDocumentRejectsBadStatus(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	doc := seedDocument(t, db, user.ID, document.TypeResume, "Resume")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/v1/documents/%d", doc.ID), gin.H{
		"status": "published",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestPreviewDraftReturnsPlanAndTree(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, user.ID)

	content := document.DefaultCoverLetterContent()
	content.Sender.FullName = "Ada Lovelace"
	raw, _ := json.Marshal(content)

	rec := doJSON(t, router, http.MethodPost, "/v1/documents/preview", gin.H{
		"type":    document.TypeCoverLetter,
		"content": json.RawMessage(raw),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Plan struct {
			DocumentType string `json:"document_type"`
			FontFamily   string `json:"font_family"`
		} `json:"plan"`
		Tree struct {
			Kind string `json:"kind"`
		} `json:"tree"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Plan.DocumentType != document.TypeCoverLetter {
		t.Fatalf("plan document type = %q", resp.Plan.DocumentType)
	}
	if resp.Plan.FontFamily == "" {
		t.Fatal("plan font family is empty")
	}
	if resp.Tree.Kind == "" {
		t.Fatal("tree root kind is empty")
	}
}

func TestDownloadLinkRequiresExportedPDF(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	doc := seedDocument(t, db, user.ID, document.TypeResume, "Resume")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/documents/%d/download-link", doc.ID), nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestGetPrintDocumentReturnsHTML(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	doc := seedDocument(t, db, user.ID, document.TypeResume, "Resume")
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, user.ID)

	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/v1/internal/documents/%d/print", doc.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<!DOCTYPE html>") {
		t.Fatal("body is not a full html page")
	}
}

func TestGetPrintDocumentNotFound(t *testing.T) {
	db := newTestDB(t)
	h := NewDocumentHandler(db, nil, nil, 0)
	router := newTestRouter(h, 1)

	rec := doJSON(t, router, http.MethodGet, "/v1/internal/documents/999/print", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/divy-03/DocAI/config"
	"github.com/divy-03/DocAI/internal/eventbus"
	"github.com/divy-03/DocAI/internal/model"
	"github.com/divy-03/DocAI/internal/pkg/database"
	"github.com/divy-03/DocAI/internal/repository"
	"github.com/divy-03/DocAI/internal/service"
	"github.com/divy-03/DocAI/internal/service/generator"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type mockGenerator struct {
	RefineFunc  func(original, instruction string) (string, error)
	refineCalls int
}

func (m *mockGenerator) GenerateSection(ctx context.Context, req generator.SectionRequest) (string, error) {
	return "generated " + req.SectionTitle, nil
}

func (m *mockGenerator) GenerateOutline(ctx context.Context, topic string, documentType model.DocumentType, count int) ([]string, error) {
	titles := make([]string, count)
	for i := range titles {
		titles[i] = topic + " part"
	}
	return titles, nil
}

func (m *mockGenerator) Refine(ctx context.Context, original, instruction string) (string, error) {
	m.refineCalls++
	if m.RefineFunc != nil {
		return m.RefineFunc(original, instruction)
	}
	return "refined: " + original, nil
}

type testServer struct {
	engine *gin.Engine
	gen    *mockGenerator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db error: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate error: %v", err)
	}

	projectRepo := repository.NewProjectRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	refinementRepo := repository.NewRefinementRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	bus := eventbus.NewSectionEventBus()
	gen := &mockGenerator{}

	projectHandler := NewProjectHandler(service.NewProjectService(projectRepo))
	sectionHandler := NewSectionHandler(service.NewSectionService(sectionRepo, bus))
	generationHandler := NewGenerationHandler(service.NewGenerationService(projectRepo, sectionRepo, gen, config.Default().Generation, bus))
	refinementHandler := NewRefinementHandler(
		service.NewRefinementService(sectionRepo, refinementRepo, feedbackRepo, gen, bus),
		service.NewFeedbackService(sectionRepo, feedbackRepo, bus),
	)

	r := gin.New()
	r.POST("/projects", projectHandler.Create)
	r.GET("/projects", projectHandler.List)
	r.GET("/projects/:id", projectHandler.Get)
	r.PUT("/projects/:id", projectHandler.Update)
	r.DELETE("/projects/:id", projectHandler.Delete)
	r.PUT("/sections/:id", sectionHandler.Update)
	r.POST("/generate/:id", generationHandler.GenerateProject)
	r.POST("/generate/:id/:section_id", generationHandler.GenerateSection)
	r.POST("/outline", generationHandler.GenerateOutline)
	r.POST("/sections/:id/refine-preview", refinementHandler.Preview)
	r.POST("/sections/:id/refine-accept", refinementHandler.Accept)
	r.POST("/sections/:id/refine", refinementHandler.Refine)
	r.POST("/sections/:id/restore", refinementHandler.Restore)
	r.GET("/sections/:id/refinements", refinementHandler.History)
	r.POST("/sections/:id/feedback", refinementHandler.AddFeedback)
	r.GET("/sections/:id/feedback", refinementHandler.ListFeedback)
	r.GET("/sections/:id/details", refinementHandler.Details)

	return &testServer{engine: r, gen: gen}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body error: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response error: %v, body=%s", err, w.Body.String())
	}
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

// createSection 创建项目并写入一个带内容的章节，返回章节 ID
func (s *testServer) createSection(t *testing.T, content string) uint {
	t.Helper()
	w := s.do(t, http.MethodPost, "/projects", map[string]any{
		"title":         "Report",
		"topic":         "Wind",
		"document_type": "docx",
		"sections":      []map[string]any{{"title": "Intro", "order": 0}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create project status %d: %s", w.Code, w.Body.String())
	}
	project := decode[model.Project](t, w)
	id := project.Sections[0].ID
	if content != "" {
		w = s.do(t, http.MethodPut, "/sections/"+itoa(id), map[string]any{"content": content})
		if w.Code != http.StatusOK {
			t.Fatalf("update section status %d: %s", w.Code, w.Body.String())
		}
	}
	return id
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestProjectHandlerLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/projects", map[string]any{"title": "x", "topic": "y", "document_type": "pdf"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad document type, got %d", w.Code)
	}

	s.createSection(t, "")

	w = s.do(t, http.MethodGet, "/projects", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status %d", w.Code)
	}
	list := decode[[]model.ProjectSummary](t, w)
	if len(list) != 1 || list[0].SectionCount != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}

	projectID := itoa(list[0].ID)
	w = s.do(t, http.MethodPut, "/projects/"+projectID, map[string]any{"title": "Renamed"})
	if w.Code != http.StatusOK || decode[model.Project](t, w).Title != "Renamed" {
		t.Fatalf("update failed: %d %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodDelete, "/projects/"+projectID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status %d", w.Code)
	}
	w = s.do(t, http.MethodGet, "/projects/"+projectID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
	if msg := errorMessage(t, w); msg != "project not found" {
		t.Fatalf("unexpected error message: %q", msg)
	}

	w = s.do(t, http.MethodGet, "/projects/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
}

func TestRefinementHandlerPreviewAccept(t *testing.T) {
	s := newTestServer(t)
	id := itoa(s.createSection(t, "original text"))

	w := s.do(t, http.MethodPost, "/sections/"+id+"/refine-preview", map[string]any{"prompt": "formal"})
	if w.Code != http.StatusOK {
		t.Fatalf("preview status %d: %s", w.Code, w.Body.String())
	}
	preview := decode[model.RefinementPreview](t, w)
	if preview.OriginalContent != "original text" || preview.RefinedContent != "refined: original text" {
		t.Fatalf("unexpected preview: %+v", preview)
	}

	w = s.do(t, http.MethodGet, "/sections/"+id+"/refinements", nil)
	if records := decode[[]model.Refinement](t, w); len(records) != 0 {
		t.Fatalf("preview must not write history, got %d records", len(records))
	}

	w = s.do(t, http.MethodPost, "/sections/"+id+"/refine-accept", map[string]any{"prompt": "formal", "content": preview.RefinedContent})
	if w.Code != http.StatusOK {
		t.Fatalf("accept status %d: %s", w.Code, w.Body.String())
	}
	if section := decode[model.Section](t, w); section.Content != "refined: original text" {
		t.Fatalf("unexpected content: %q", section.Content)
	}

	w = s.do(t, http.MethodGet, "/sections/"+id+"/refinements", nil)
	records := decode[[]model.Refinement](t, w)
	if len(records) != 1 || records[0].PreviousContent != "original text" {
		t.Fatalf("unexpected history: %+v", records)
	}
}

func TestRefinementHandlerPreviewErrors(t *testing.T) {
	s := newTestServer(t)
	empty := itoa(s.createSection(t, ""))

	w := s.do(t, http.MethodPost, "/sections/"+empty+"/refine-preview", map[string]any{"prompt": "formal"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty section, got %d", w.Code)
	}
	if msg := errorMessage(t, w); msg != "cannot refine section without existing content" {
		t.Fatalf("unexpected message: %q", msg)
	}

	w = s.do(t, http.MethodPost, "/sections/9999/refine-preview", map[string]any{"prompt": "formal"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	filled := itoa(s.createSection(t, "text"))
	s.gen.RefineFunc = func(original, instruction string) (string, error) {
		return "", errors.New("rate limited")
	}
	w = s.do(t, http.MethodPost, "/sections/"+filled+"/refine-preview", map[string]any{"prompt": "formal"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if msg := errorMessage(t, w); msg != "error refining content: rate limited" {
		t.Fatalf("unexpected message: %q", msg)
	}
	if s.gen.refineCalls != 1 {
		t.Fatalf("expected exactly one generator call, got %d", s.gen.refineCalls)
	}
}

func TestRefinementHandlerRestore(t *testing.T) {
	s := newTestServer(t)
	id := itoa(s.createSection(t, "v1"))

	w := s.do(t, http.MethodPost, "/sections/"+id+"/refine", map[string]any{"prompt": "expand"})
	if w.Code != http.StatusOK {
		t.Fatalf("refine status %d: %s", w.Code, w.Body.String())
	}
	records := decode[[]model.Refinement](t, s.do(t, http.MethodGet, "/sections/"+id+"/refinements", nil))
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}

	w = s.do(t, http.MethodPost, "/sections/"+id+"/restore", map[string]any{"refinement_id": records[0].ID})
	if w.Code != http.StatusOK {
		t.Fatalf("restore status %d: %s", w.Code, w.Body.String())
	}
	if section := decode[model.Section](t, w); section.Content != "v1" {
		t.Fatalf("expected restored content v1, got %q", section.Content)
	}

	w = s.do(t, http.MethodPost, "/sections/"+id+"/restore", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without refinement_id, got %d", w.Code)
	}
	w = s.do(t, http.MethodPost, "/sections/"+id+"/restore", map[string]any{"refinement_id": 999})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown refinement, got %d", w.Code)
	}
}

func TestRefinementHandlerFeedbackAndDetails(t *testing.T) {
	s := newTestServer(t)
	id := itoa(s.createSection(t, "text"))

	w := s.do(t, http.MethodPost, "/sections/"+id+"/feedback", map[string]any{"feedback_type": "dislike", "comment": "too long"})
	if w.Code != http.StatusCreated {
		t.Fatalf("feedback status %d: %s", w.Code, w.Body.String())
	}
	w = s.do(t, http.MethodPost, "/sections/"+id+"/feedback", map[string]any{"feedback_type": "meh"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad feedback type, got %d", w.Code)
	}

	list := decode[[]model.Feedback](t, s.do(t, http.MethodGet, "/sections/"+id+"/feedback", nil))
	if len(list) != 1 || list[0].Comment != "too long" {
		t.Fatalf("unexpected feedback list: %+v", list)
	}

	detail := decode[model.SectionDetail](t, s.do(t, http.MethodGet, "/sections/"+id+"/details", nil))
	if detail.Content != "text" || len(detail.Feedback) != 1 || len(detail.Refinements) != 0 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}

func TestGenerationHandler(t *testing.T) {
	s := newTestServer(t)
	sectionID := s.createSection(t, "")
	list := decode[[]model.ProjectSummary](t, s.do(t, http.MethodGet, "/projects", nil))
	projectID := itoa(list[0].ID)

	w := s.do(t, http.MethodPost, "/generate/"+projectID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("generate status %d: %s", w.Code, w.Body.String())
	}
	if project := decode[model.Project](t, w); project.Sections[0].Content != "generated Intro" {
		t.Fatalf("unexpected generated content: %+v", project.Sections)
	}

	w = s.do(t, http.MethodPost, "/generate/"+projectID+"/"+itoa(sectionID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("regenerate status %d: %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodPost, "/outline?topic=Tides&document_type=pptx&section_count=4", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("outline status %d: %s", w.Code, w.Body.String())
	}
	if outline := decode[model.Outline](t, w); len(outline.Sections) != 4 {
		t.Fatalf("unexpected outline: %+v", outline)
	}

	w = s.do(t, http.MethodPost, "/outline?topic=Tides&document_type=pptx&section_count=20", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for section_count 20, got %d", w.Code)
	}
	w = s.do(t, http.MethodPost, "/outline?topic=Tides&section_count=x", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad section_count, got %d", w.Code)
	}
}

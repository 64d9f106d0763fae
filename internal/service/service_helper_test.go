package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/divy-03/DocAI/config"
	"github.com/divy-03/DocAI/internal/eventbus"
	"github.com/divy-03/DocAI/internal/model"
	"github.com/divy-03/DocAI/internal/pkg/database"
	"github.com/divy-03/DocAI/internal/repository"
	"github.com/divy-03/DocAI/internal/service/generator"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockGenerator struct {
	mu                  sync.Mutex
	GenerateSectionFunc func(req generator.SectionRequest) (string, error)
	GenerateOutlineFunc func(topic string, documentType model.DocumentType, count int) ([]string, error)
	RefineFunc          func(original, instruction string) (string, error)

	sectionRequests []generator.SectionRequest
	refineCalls     int
}

func (m *mockGenerator) GenerateSection(ctx context.Context, req generator.SectionRequest) (string, error) {
	m.mu.Lock()
	m.sectionRequests = append(m.sectionRequests, req)
	m.mu.Unlock()
	if m.GenerateSectionFunc != nil {
		return m.GenerateSectionFunc(req)
	}
	return "content of " + req.SectionTitle, nil
}

func (m *mockGenerator) GenerateOutline(ctx context.Context, topic string, documentType model.DocumentType, count int) ([]string, error) {
	if m.GenerateOutlineFunc != nil {
		return m.GenerateOutlineFunc(topic, documentType, count)
	}
	return nil, nil
}

func (m *mockGenerator) Refine(ctx context.Context, original, instruction string) (string, error) {
	m.mu.Lock()
	m.refineCalls++
	m.mu.Unlock()
	if m.RefineFunc != nil {
		return m.RefineFunc(original, instruction)
	}
	return original + " (refined)", nil
}

type testEnv struct {
	db          *gorm.DB
	bus         *eventbus.SectionEventBus
	gen         *mockGenerator
	events      []eventbus.SectionEvent
	projects    *ProjectService
	sections    *SectionService
	generation  *GenerationService
	refinements *RefinementService
	feedback    *FeedbackService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	projectRepo := repository.NewProjectRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	refinementRepo := repository.NewRefinementRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	env := &testEnv{db: db, bus: eventbus.NewSectionEventBus(), gen: &mockGenerator{}}
	for _, eventType := range eventbus.AllSectionEventTypes {
		env.bus.Subscribe(eventType, func(ctx context.Context, event eventbus.SectionEvent) error {
			env.events = append(env.events, event)
			return nil
		})
	}

	env.projects = NewProjectService(projectRepo)
	env.sections = NewSectionService(sectionRepo, env.bus)
	env.generation = NewGenerationService(projectRepo, sectionRepo, env.gen, config.Default().Generation, env.bus)
	env.refinements = NewRefinementService(sectionRepo, refinementRepo, feedbackRepo, env.gen, env.bus)
	env.feedback = NewFeedbackService(sectionRepo, feedbackRepo, env.bus)
	return env
}

func (e *testEnv) createProject(t *testing.T, documentType model.DocumentType, titles ...string) *model.Project {
	t.Helper()
	req := CreateProjectRequest{Title: "Report", Topic: "Solar power", DocumentType: documentType}
	for i, title := range titles {
		req.Sections = append(req.Sections, SectionInput{Title: title, Order: i})
	}
	project, err := e.projects.Create(context.Background(), req)
	require.NoError(t, err)
	return project
}

// sectionWithContent 创建一个已有内容的章节
func (e *testEnv) sectionWithContent(t *testing.T, content string) *model.Section {
	t.Helper()
	project := e.createProject(t, model.DocumentTypeDocx, "Intro")
	section, err := e.sections.Update(context.Background(), project.Sections[0].ID, UpdateSectionRequest{Content: &content})
	require.NoError(t, err)
	e.events = nil
	return section
}

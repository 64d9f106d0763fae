package editor

import (
	"context"
	"sync"

	"github.com/divy-03/DocAI/internal/model"
)

// fakeBackend 记录每类请求的调用次数
type fakeBackend struct {
	mu sync.Mutex

	GetProjectFunc        func(projectID uint) (*model.Project, error)
	PreviewRefinementFunc func(ctx context.Context, sectionID uint, prompt string) (*model.RefinementPreview, error)
	AcceptRefinementFunc  func(sectionID uint, prompt, content string) (*model.Section, error)
	RestoreRefinementFunc func(sectionID, refinementID uint) (*model.Section, error)
	UpdateSectionFunc     func(sectionID uint, patch SectionPatch) (*model.Section, error)
	AddFeedbackFunc       func(sectionID uint, feedbackType model.FeedbackType, comment string) (*model.Feedback, error)
	ListFeedbackFunc      func(sectionID uint) ([]model.Feedback, error)
	ListRefinementsFunc   func(sectionID uint) ([]model.Refinement, error)

	calls map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeBackend) GetProject(ctx context.Context, projectID uint) (*model.Project, error) {
	f.record("GetProject")
	if f.GetProjectFunc != nil {
		return f.GetProjectFunc(projectID)
	}
	return &model.Project{ID: projectID}, nil
}

func (f *fakeBackend) PreviewRefinement(ctx context.Context, sectionID uint, prompt string) (*model.RefinementPreview, error) {
	f.record("PreviewRefinement")
	if f.PreviewRefinementFunc != nil {
		return f.PreviewRefinementFunc(ctx, sectionID, prompt)
	}
	return &model.RefinementPreview{}, nil
}

func (f *fakeBackend) AcceptRefinement(ctx context.Context, sectionID uint, prompt, content string) (*model.Section, error) {
	f.record("AcceptRefinement")
	if f.AcceptRefinementFunc != nil {
		return f.AcceptRefinementFunc(sectionID, prompt, content)
	}
	return &model.Section{ID: sectionID, Content: content}, nil
}

func (f *fakeBackend) RestoreRefinement(ctx context.Context, sectionID, refinementID uint) (*model.Section, error) {
	f.record("RestoreRefinement")
	if f.RestoreRefinementFunc != nil {
		return f.RestoreRefinementFunc(sectionID, refinementID)
	}
	section := &model.Section{ID: sectionID}
	if f.ListRefinementsFunc != nil {
		records, _ := f.ListRefinementsFunc(sectionID)
		for _, r := range records {
			if r.ID == refinementID {
				section.Content = r.PreviousContent
			}
		}
	}
	return section, nil
}

func (f *fakeBackend) UpdateSection(ctx context.Context, sectionID uint, patch SectionPatch) (*model.Section, error) {
	f.record("UpdateSection")
	if f.UpdateSectionFunc != nil {
		return f.UpdateSectionFunc(sectionID, patch)
	}
	section := &model.Section{ID: sectionID}
	if patch.Title != nil {
		section.Title = *patch.Title
	}
	if patch.Content != nil {
		section.Content = *patch.Content
	}
	return section, nil
}

func (f *fakeBackend) AddFeedback(ctx context.Context, sectionID uint, feedbackType model.FeedbackType, comment string) (*model.Feedback, error) {
	f.record("AddFeedback")
	if f.AddFeedbackFunc != nil {
		return f.AddFeedbackFunc(sectionID, feedbackType, comment)
	}
	return &model.Feedback{SectionID: sectionID, FeedbackType: feedbackType, Comment: comment}, nil
}

func (f *fakeBackend) ListFeedback(ctx context.Context, sectionID uint) ([]model.Feedback, error) {
	f.record("ListFeedback")
	if f.ListFeedbackFunc != nil {
		return f.ListFeedbackFunc(sectionID)
	}
	return nil, nil
}

func (f *fakeBackend) ListRefinements(ctx context.Context, sectionID uint) ([]model.Refinement, error) {
	f.record("ListRefinements")
	if f.ListRefinementsFunc != nil {
		return f.ListRefinementsFunc(sectionID)
	}
	return nil, nil
}

// projectWith 返回一个包含给定章节内容的项目
func projectWith(contents ...string) func(uint) (*model.Project, error) {
	return func(projectID uint) (*model.Project, error) {
		project := &model.Project{ID: projectID, Title: "Report", DocumentType: model.DocumentTypeDocx}
		for i, content := range contents {
			project.Sections = append(project.Sections, model.Section{
				ID:        uint(i + 1),
				ProjectID: projectID,
				Title:     "Section",
				Content:   content,
				Order:     i,
			})
		}
		return project, nil
	}
}

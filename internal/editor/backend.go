package editor

import (
	"context"

	"github.com/divy-03/DocAI/internal/client"
	"github.com/divy-03/DocAI/internal/model"
)

// SectionPatch 章节局部修改，nil 字段保持不变
type SectionPatch = client.SectionPatch

type ProjectLoader interface {
	GetProject(ctx context.Context, projectID uint) (*model.Project, error)
}

type RefinementBackend interface {
	PreviewRefinement(ctx context.Context, sectionID uint, prompt string) (*model.RefinementPreview, error)
	AcceptRefinement(ctx context.Context, sectionID uint, prompt, content string) (*model.Section, error)
	RestoreRefinement(ctx context.Context, sectionID, refinementID uint) (*model.Section, error)
	UpdateSection(ctx context.Context, sectionID uint, patch SectionPatch) (*model.Section, error)
}

type FeedbackBackend interface {
	AddFeedback(ctx context.Context, sectionID uint, feedbackType model.FeedbackType, comment string) (*model.Feedback, error)
	ListFeedback(ctx context.Context, sectionID uint) ([]model.Feedback, error)
}

type HistoryBackend interface {
	ListRefinements(ctx context.Context, sectionID uint) ([]model.Refinement, error)
}

// Backend 编辑器依赖的全部后端能力，由 client.Client 实现
type Backend interface {
	ProjectLoader
	RefinementBackend
	FeedbackBackend
	HistoryBackend
}

var _ Backend = (*client.Client)(nil)

// Text 构造字符串指针，便于拼装 SectionPatch
func Text(s string) *string {
	return &s
}

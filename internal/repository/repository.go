package repository

import (
	"context"
	"errors"
	"time"

	"github.com/divy-03/DocAI/internal/model"
	"gorm.io/gorm"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	List(ctx context.Context) ([]model.ProjectSummary, error)
	Get(ctx context.Context, id uint) (*model.Project, error)
	GetBasic(ctx context.Context, id uint) (*model.Project, error)
	Save(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id uint) error
	Touch(ctx context.Context, id uint, at time.Time) error
}

type SectionRepository interface {
	Get(ctx context.Context, id uint) (*model.Section, error)
	GetByProject(ctx context.Context, projectID uint) ([]model.Section, error)
	Save(ctx context.Context, section *model.Section) error
}

type RefinementRepository interface {
	// Apply 在同一事务内追加历史记录并把章节内容替换为 record.NewContent
	Apply(ctx context.Context, section *model.Section, record *model.Refinement) error
	Get(ctx context.Context, id uint) (*model.Refinement, error)
	ListBySection(ctx context.Context, sectionID uint) ([]model.Refinement, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	ListBySection(ctx context.Context, sectionID uint) ([]model.Feedback, error)
	GetLatestBySection(ctx context.Context, sectionID uint) (*model.Feedback, error)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

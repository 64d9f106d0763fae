package repository

import (
	"context"
	"errors"

	"github.com/divy-03/DocAI/internal/model"
	"gorm.io/gorm"
)

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository 创建章节反馈数据仓库
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

// Create 追加一条反馈记录
func (r *feedbackRepository) Create(ctx context.Context, feedback *model.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

// ListBySection 按创建时间倒序返回反馈
func (r *feedbackRepository) ListBySection(ctx context.Context, sectionID uint) ([]model.Feedback, error) {
	var feedback []model.Feedback
	err := r.db.WithContext(ctx).Where("section_id = ?", sectionID).
		Order("created_at DESC, id DESC").
		Find(&feedback).Error
	return feedback, err
}

// GetLatestBySection 获取章节最新一条反馈，没有时返回 nil
func (r *feedbackRepository) GetLatestBySection(ctx context.Context, sectionID uint) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.db.WithContext(ctx).Where("section_id = ?", sectionID).
		Order("created_at DESC, id DESC").
		First(&feedback).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

package repository

import (
	"context"
	"time"

	"github.com/divy-03/DocAI/internal/model"
	"gorm.io/gorm"
)

type refinementRepository struct {
	db *gorm.DB
}

func NewRefinementRepository(db *gorm.DB) RefinementRepository {
	return &refinementRepository{db: db}
}

func (r *refinementRepository) Apply(ctx context.Context, section *model.Section, record *model.Refinement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record.SectionID = section.ID
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		now := time.Now()
		result := tx.Model(&model.Section{}).
			Where("id = ?", section.ID).
			Updates(map[string]interface{}{
				"content":    record.NewContent,
				"updated_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		section.Content = record.NewContent
		section.UpdatedAt = now
		return nil
	})
}

func (r *refinementRepository) Get(ctx context.Context, id uint) (*model.Refinement, error) {
	var record model.Refinement
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &record, nil
}

// ListBySection 按创建时间倒序返回历史
func (r *refinementRepository) ListBySection(ctx context.Context, sectionID uint) ([]model.Refinement, error) {
	var records []model.Refinement
	err := r.db.WithContext(ctx).Where("section_id = ?", sectionID).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	return records, err
}

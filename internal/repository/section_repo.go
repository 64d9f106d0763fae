package repository

import (
	"context"

	"github.com/divy-03/DocAI/internal/model"
	"gorm.io/gorm"
)

type sectionRepository struct {
	db *gorm.DB
}

func NewSectionRepository(db *gorm.DB) SectionRepository {
	return &sectionRepository{db: db}
}

func (r *sectionRepository) Get(ctx context.Context, id uint) (*model.Section, error) {
	var section model.Section
	if err := r.db.WithContext(ctx).First(&section, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &section, nil
}

func (r *sectionRepository) GetByProject(ctx context.Context, projectID uint) ([]model.Section, error) {
	var sections []model.Section
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).
		Order("sort_order ASC, id ASC").
		Find(&sections).Error
	return sections, err
}

func (r *sectionRepository) Save(ctx context.Context, section *model.Section) error {
	return r.db.WithContext(ctx).Save(section).Error
}

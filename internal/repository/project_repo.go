package repository

import (
	"context"
	"time"

	"github.com/divy-03/DocAI/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create 创建项目，章节随项目一起写入
func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// List 按更新时间倒序列出项目并统计章节数
func (r *projectRepository) List(ctx context.Context) ([]model.ProjectSummary, error) {
	var projects []model.ProjectSummary
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Select("projects.id, projects.title, projects.topic, projects.document_type, projects.created_at, projects.updated_at, " +
			"(SELECT COUNT(*) FROM sections WHERE sections.project_id = projects.id) AS section_count").
		Order("projects.updated_at DESC, projects.id DESC").
		Scan(&projects).Error
	return projects, err
}

// Get 获取项目及按顺序排列的章节
func (r *projectRepository) Get(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		First(&project, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &project, nil
}

// GetBasic 只获取项目本身
func (r *projectRepository) GetBasic(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &project, nil
}

// Save 保存项目字段，不触碰章节
func (r *projectRepository) Save(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error
}

// Delete 删除项目及其章节、历史和反馈
func (r *projectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.Project
		if err := tx.First(&project, id).Error; err != nil {
			return notFound(err)
		}

		var sectionIDs []uint
		if err := tx.Model(&model.Section{}).Where("project_id = ?", id).Pluck("id", &sectionIDs).Error; err != nil {
			return err
		}
		if len(sectionIDs) > 0 {
			if err := tx.Where("section_id IN ?", sectionIDs).Delete(&model.Refinement{}).Error; err != nil {
				return err
			}
			if err := tx.Where("section_id IN ?", sectionIDs).Delete(&model.Feedback{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&model.Section{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Project{}, id).Error
	})
}

// Touch 刷新项目更新时间
func (r *projectRepository) Touch(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}

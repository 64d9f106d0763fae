package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/divy-03/DocAI/internal/model"
	"github.com/divy-03/DocAI/internal/repository"
	"k8s.io/klog/v2"
)

type ProjectService struct {
	projectRepo repository.ProjectRepository
}

func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

type SectionInput struct {
	Title string `json:"title"`
	Order int    `json:"order"`
}

type CreateProjectRequest struct {
	Title        string             `json:"title"`
	Topic        string             `json:"topic"`
	DocumentType model.DocumentType `json:"document_type"`
	Sections     []SectionInput     `json:"sections"`
}

type UpdateProjectRequest struct {
	Title *string `json:"title"`
	Topic *string `json:"topic"`
}

// Create 创建项目及其章节
// 章节 order 必须唯一，写入前按原有先后重新编号为 0..n-1
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*model.Project, error) {
	title := strings.TrimSpace(req.Title)
	topic := strings.TrimSpace(req.Topic)
	if title == "" {
		return nil, invalidf("title is required")
	}
	if topic == "" {
		return nil, invalidf("topic is required")
	}
	if !req.DocumentType.Valid() {
		return nil, invalidf("invalid document type, must be 'docx' or 'pptx'")
	}

	inputs := make([]SectionInput, len(req.Sections))
	copy(inputs, req.Sections)
	seen := make(map[int]bool, len(inputs))
	for i := range inputs {
		inputs[i].Title = strings.TrimSpace(inputs[i].Title)
		if inputs[i].Title == "" {
			return nil, invalidf("section title is required")
		}
		if seen[inputs[i].Order] {
			return nil, invalidf("duplicate section order %d", inputs[i].Order)
		}
		seen[inputs[i].Order] = true
	}
	sort.SliceStable(inputs, func(i, j int) bool { return inputs[i].Order < inputs[j].Order })

	project := &model.Project{
		Title:        title,
		Topic:        topic,
		DocumentType: req.DocumentType,
	}
	for i, in := range inputs {
		project.Sections = append(project.Sections, model.Section{Title: in.Title, Order: i})
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		klog.Errorf("[ProjectService] 创建项目失败: %v", err)
		return nil, err
	}
	klog.V(6).Infof("[ProjectService] 创建项目成功: id=%d, sections=%d", project.ID, len(project.Sections))
	return project, nil
}

func (s *ProjectService) List(ctx context.Context) ([]model.ProjectSummary, error) {
	return s.projectRepo.List(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*model.Project, error) {
	project, err := s.projectRepo.Get(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "project", id)
	}
	return project, nil
}

// Update 更新项目标题或主题
func (s *ProjectService) Update(ctx context.Context, id uint, req UpdateProjectRequest) (*model.Project, error) {
	project, err := s.projectRepo.GetBasic(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "project", id)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, invalidf("title must not be empty")
		}
		project.Title = title
	}
	if req.Topic != nil {
		topic := strings.TrimSpace(*req.Topic)
		if topic == "" {
			return nil, invalidf("topic must not be empty")
		}
		project.Topic = topic
	}
	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return wrapNotFound(err, "project", id)
	}
	klog.V(6).Infof("[ProjectService] 删除项目: id=%d", id)
	return nil
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/divy-03/DocAI/config"
	"github.com/divy-03/DocAI/internal/eventbus"
	"github.com/divy-03/DocAI/internal/model"
	"github.com/divy-03/DocAI/internal/repository"
	"github.com/divy-03/DocAI/internal/service/generator"
	"github.com/divy-03/DocAI/internal/utils"
	"k8s.io/klog/v2"
)

// ContentGenerator AI 内容生成能力，由 generator.Service 实现
type ContentGenerator interface {
	GenerateSection(ctx context.Context, req generator.SectionRequest) (string, error)
	GenerateOutline(ctx context.Context, topic string, documentType model.DocumentType, count int) ([]string, error)
	Refine(ctx context.Context, original, instruction string) (string, error)
}

const (
	minOutlineSections = 3
	maxOutlineSections = 15
)

type GenerationService struct {
	projectRepo repository.ProjectRepository
	sectionRepo repository.SectionRepository
	gen         ContentGenerator
	cfg         config.GenerationConfig
	bus         *eventbus.SectionEventBus
}

func NewGenerationService(projectRepo repository.ProjectRepository, sectionRepo repository.SectionRepository, gen ContentGenerator, cfg config.GenerationConfig, bus *eventbus.SectionEventBus) *GenerationService {
	return &GenerationService{
		projectRepo: projectRepo,
		sectionRepo: sectionRepo,
		gen:         gen,
		cfg:         cfg,
		bus:         bus,
	}
}

// GenerateProject 按顺序生成项目全部章节
// 前序章节的摘要作为上下文传给后续章节，全部成功后才写库
func (s *GenerationService) GenerateProject(ctx context.Context, projectID uint) (*model.Project, error) {
	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, wrapNotFound(err, "project", projectID)
	}
	if len(project.Sections) == 0 {
		return nil, invalidf("project has no sections to generate")
	}

	klog.V(6).Infof("[GenerationService] 开始生成项目: id=%d, sections=%d", projectID, len(project.Sections))
	var running strings.Builder
	contents := make([]string, len(project.Sections))
	for i, section := range project.Sections {
		content, err := s.gen.GenerateSection(ctx, generator.SectionRequest{
			Topic:        project.Topic,
			SectionTitle: section.Title,
			DocumentType: project.DocumentType,
			Context:      running.String(),
		})
		if err != nil {
			klog.Errorf("[GenerationService] 章节生成失败: projectID=%d, section=%s, error=%v", projectID, section.Title, err)
			return nil, err
		}
		contents[i] = content
		if running.Len() < s.cfg.ContextLimit {
			running.WriteString("\n\n")
			running.WriteString(section.Title)
			running.WriteString(": ")
			running.WriteString(utils.Truncate(content, s.cfg.ContextSnippet))
			running.WriteString("...")
		}
	}

	now := time.Now()
	for i := range project.Sections {
		section := &project.Sections[i]
		section.Content = contents[i]
		section.UpdatedAt = now
		if err := s.sectionRepo.Save(ctx, section); err != nil {
			return nil, err
		}
		publish(ctx, s.bus, eventbus.SectionEvent{
			Type:      eventbus.SectionEventGenerated,
			ProjectID: project.ID,
			SectionID: section.ID,
		})
	}
	klog.V(6).Infof("[GenerationService] 项目生成完成: id=%d", projectID)
	return project, nil
}

// GenerateSection 重新生成单个章节，参考紧邻的前序章节
func (s *GenerationService) GenerateSection(ctx context.Context, projectID, sectionID uint) (*model.Section, error) {
	project, err := s.projectRepo.Get(ctx, projectID)
	if err != nil {
		return nil, wrapNotFound(err, "project", projectID)
	}

	index := -1
	for i := range project.Sections {
		if project.Sections[i].ID == sectionID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, &NotFoundError{Kind: "section", ID: sectionID}
	}

	start := index - s.cfg.RegenerateNeighbours
	if start < 0 {
		start = 0
	}
	var prior strings.Builder
	for _, prev := range project.Sections[start:index] {
		if !prev.HasContent() {
			continue
		}
		prior.WriteString(prev.Title)
		prior.WriteString(": ")
		prior.WriteString(utils.Truncate(prev.Content, s.cfg.RegenerateSnippet))
		prior.WriteString("...\n")
	}

	section := project.Sections[index]
	content, err := s.gen.GenerateSection(ctx, generator.SectionRequest{
		Topic:        project.Topic,
		SectionTitle: section.Title,
		DocumentType: project.DocumentType,
		Context:      prior.String(),
	})
	if err != nil {
		return nil, err
	}

	section.Content = content
	section.UpdatedAt = time.Now()
	if err := s.sectionRepo.Save(ctx, &section); err != nil {
		return nil, err
	}
	publish(ctx, s.bus, eventbus.SectionEvent{
		Type:      eventbus.SectionEventGenerated,
		ProjectID: project.ID,
		SectionID: section.ID,
	})
	return &section, nil
}

// GenerateOutline 为主题生成大纲，不落库
func (s *GenerationService) GenerateOutline(ctx context.Context, topic string, documentType model.DocumentType, count int) (*model.Outline, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, invalidf("topic is required")
	}
	if !documentType.Valid() {
		return nil, invalidf("invalid document type, must be 'docx' or 'pptx'")
	}
	if count < minOutlineSections || count > maxOutlineSections {
		return nil, invalidf("section count must be between %d and %d", minOutlineSections, maxOutlineSections)
	}

	titles, err := s.gen.GenerateOutline(ctx, topic, documentType, count)
	if err != nil {
		return nil, err
	}
	outline := &model.Outline{Topic: topic, DocumentType: documentType}
	for i, title := range titles {
		outline.Sections = append(outline.Sections, model.OutlineEntry{Title: title, Order: i})
	}
	return outline, nil
}

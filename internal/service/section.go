package service

import (
	"context"
	"strings"
	"time"

	"github.com/divy-03/DocAI/internal/eventbus"
	"github.com/divy-03/DocAI/internal/model"
	"github.com/divy-03/DocAI/internal/repository"
	"k8s.io/klog/v2"
)

type SectionService struct {
	sectionRepo repository.SectionRepository
	bus         *eventbus.SectionEventBus
}

func NewSectionService(sectionRepo repository.SectionRepository, bus *eventbus.SectionEventBus) *SectionService {
	return &SectionService{sectionRepo: sectionRepo, bus: bus}
}

// UpdateSectionRequest 手动编辑，未提供的字段保持不变
type UpdateSectionRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (s *SectionService) Get(ctx context.Context, id uint) (*model.Section, error) {
	section, err := s.sectionRepo.Get(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, "section", id)
	}
	return section, nil
}

// Update 手动更新章节标题或内容
func (s *SectionService) Update(ctx context.Context, id uint, req UpdateSectionRequest) (*model.Section, error) {
	section, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, invalidf("section title must not be empty")
		}
		section.Title = title
	}
	if req.Content != nil {
		section.Content = *req.Content
	}
	section.UpdatedAt = time.Now()

	if err := s.sectionRepo.Save(ctx, section); err != nil {
		klog.Errorf("[SectionService] 保存章节失败: id=%d, error=%v", id, err)
		return nil, err
	}

	publish(ctx, s.bus, eventbus.SectionEvent{
		Type:      eventbus.SectionEventEdited,
		ProjectID: section.ProjectID,
		SectionID: section.ID,
	})
	return section, nil
}

// publish 发布章节事件，订阅者失败只记录日志
func publish(ctx context.Context, bus *eventbus.SectionEventBus, event eventbus.SectionEvent) {
	if err := bus.Publish(ctx, event.Type, event); err != nil {
		klog.Warningf("章节事件处理失败: type=%s, sectionID=%d, error=%v", event.Type, event.SectionID, err)
	}
}

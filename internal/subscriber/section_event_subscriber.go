package subscriber

import (
	"context"
	"time"

	"github.com/divy-03/DocAI/internal/eventbus"
	"github.com/divy-03/DocAI/internal/repository"
	"k8s.io/klog/v2"
)

// SectionEventSubscriber 章节发生变化时刷新所属项目的更新时间
type SectionEventSubscriber struct {
	projectRepo repository.ProjectRepository
	now         func() time.Time
}

func NewSectionEventSubscriber(projectRepo repository.ProjectRepository) *SectionEventSubscriber {
	return &SectionEventSubscriber{projectRepo: projectRepo, now: time.Now}
}

func (s *SectionEventSubscriber) Register(bus *eventbus.SectionEventBus) {
	if bus == nil {
		return
	}
	for _, eventType := range eventbus.AllSectionEventTypes {
		bus.Subscribe(eventType, s.handleSectionChanged)
	}
}

func (s *SectionEventSubscriber) handleSectionChanged(ctx context.Context, event eventbus.SectionEvent) error {
	klog.V(6).Infof("章节事件: type=%s, projectID=%d, sectionID=%d, refinementID=%d, feedbackID=%d",
		event.Type, event.ProjectID, event.SectionID, event.RefinementID, event.FeedbackID)

	if event.ProjectID == 0 {
		return nil
	}
	if err := s.projectRepo.Touch(ctx, event.ProjectID, s.now()); err != nil {
		klog.Warningf("刷新项目更新时间失败: projectID=%d, error=%v", event.ProjectID, err)
		return err
	}
	return nil
}

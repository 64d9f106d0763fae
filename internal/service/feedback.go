package service

import (
	"context"
	"strings"

	"github.com/divy-03/DocAI/internal/eventbus"
	"github.com/divy-03/DocAI/internal/model"
	"github.com/divy-03/DocAI/internal/repository"
	"k8s.io/klog/v2"
)

type FeedbackService struct {
	sectionRepo  repository.SectionRepository
	feedbackRepo repository.FeedbackRepository
	bus          *eventbus.SectionEventBus
}

func NewFeedbackService(sectionRepo repository.SectionRepository, feedbackRepo repository.FeedbackRepository, bus *eventbus.SectionEventBus) *FeedbackService {
	return &FeedbackService{sectionRepo: sectionRepo, feedbackRepo: feedbackRepo, bus: bus}
}

type FeedbackRequest struct {
	FeedbackType model.FeedbackType `json:"feedback_type"`
	Comment      string             `json:"comment"`
}

// Add 追加一条反馈，最新一条即为当前状态
func (s *FeedbackService) Add(ctx context.Context, sectionID uint, req FeedbackRequest) (*model.Feedback, error) {
	if !req.FeedbackType.Valid() {
		return nil, invalidf("invalid feedback type, must be 'like', 'dislike' or empty")
	}
	section, err := s.sectionRepo.Get(ctx, sectionID)
	if err != nil {
		return nil, wrapNotFound(err, "section", sectionID)
	}

	feedback := &model.Feedback{
		SectionID:    section.ID,
		FeedbackType: req.FeedbackType,
		Comment:      strings.TrimSpace(req.Comment),
	}
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		klog.Errorf("[FeedbackService] 保存反馈失败: sectionID=%d, error=%v", sectionID, err)
		return nil, err
	}
	klog.V(6).Infof("[FeedbackService] 反馈已保存: sectionID=%d, type=%q", sectionID, feedback.FeedbackType)
	publish(ctx, s.bus, eventbus.SectionEvent{
		Type:       eventbus.SectionEventFeedback,
		ProjectID:  section.ProjectID,
		SectionID:  section.ID,
		FeedbackID: feedback.ID,
	})
	return feedback, nil
}

// List 章节全部反馈，按时间倒序
func (s *FeedbackService) List(ctx context.Context, sectionID uint) ([]model.Feedback, error) {
	if _, err := s.sectionRepo.Get(ctx, sectionID); err != nil {
		return nil, wrapNotFound(err, "section", sectionID)
	}
	return s.feedbackRepo.ListBySection(ctx, sectionID)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/divy-03/DocAI/internal/eventbus"
	"github.com/divy-03/DocAI/internal/model"
	"github.com/divy-03/DocAI/internal/repository"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

type RefinementService struct {
	sectionRepo    repository.SectionRepository
	refinementRepo repository.RefinementRepository
	feedbackRepo   repository.FeedbackRepository
	gen            ContentGenerator
	bus            *eventbus.SectionEventBus
}

func NewRefinementService(
	sectionRepo repository.SectionRepository,
	refinementRepo repository.RefinementRepository,
	feedbackRepo repository.FeedbackRepository,
	gen ContentGenerator,
	bus *eventbus.SectionEventBus,
) *RefinementService {
	return &RefinementService{
		sectionRepo:    sectionRepo,
		refinementRepo: refinementRepo,
		feedbackRepo:   feedbackRepo,
		gen:            gen,
		bus:            bus,
	}
}

func (s *RefinementService) loadRefinable(ctx context.Context, sectionID uint, prompt string) (*model.Section, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, invalidf("refinement prompt is required")
	}
	section, err := s.sectionRepo.Get(ctx, sectionID)
	if err != nil {
		return nil, wrapNotFound(err, "section", sectionID)
	}
	if !section.HasContent() {
		return nil, ErrNoContent
	}
	return section, nil
}

// Preview 生成精修预览，不修改章节也不写历史
func (s *RefinementService) Preview(ctx context.Context, sectionID uint, prompt string) (*model.RefinementPreview, error) {
	section, err := s.loadRefinable(ctx, sectionID, prompt)
	if err != nil {
		return nil, err
	}
	refined, err := s.gen.Refine(ctx, section.Content, prompt)
	if err != nil {
		klog.Errorf("[RefinementService] 精修预览失败: sectionID=%d, error=%v", sectionID, err)
		return nil, fmt.Errorf("error refining content: %w", err)
	}
	klog.V(6).Infof("[RefinementService] 精修预览完成: sectionID=%d, length=%d", sectionID, len(refined))
	return &model.RefinementPreview{OriginalContent: section.Content, RefinedContent: refined}, nil
}

// Accept 确认预览内容，追加历史并替换章节内容
func (s *RefinementService) Accept(ctx context.Context, sectionID uint, prompt, content string) (*model.Section, error) {
	if strings.TrimSpace(content) == "" {
		return nil, invalidf("refined content is required")
	}
	section, err := s.loadRefinable(ctx, sectionID, prompt)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, section, &model.Refinement{
		Kind:   model.RefinementKindRefine,
		Prompt: prompt,
	}, content, eventbus.SectionEventRefined)
}

// Refine 生成并直接应用，不经过预览
func (s *RefinementService) Refine(ctx context.Context, sectionID uint, prompt string) (*model.Section, error) {
	section, err := s.loadRefinable(ctx, sectionID, prompt)
	if err != nil {
		return nil, err
	}
	refined, err := s.gen.Refine(ctx, section.Content, prompt)
	if err != nil {
		return nil, fmt.Errorf("error refining content: %w", err)
	}
	return s.apply(ctx, section, &model.Refinement{
		Kind:   model.RefinementKindRefine,
		Prompt: prompt,
	}, refined, eventbus.SectionEventRefined)
}

// Restore 将章节恢复为某条历史记录之前的内容
// 恢复本身作为一条新记录追加，历史不会被截断
func (s *RefinementService) Restore(ctx context.Context, sectionID, refinementID uint) (*model.Section, error) {
	section, err := s.sectionRepo.Get(ctx, sectionID)
	if err != nil {
		return nil, wrapNotFound(err, "section", sectionID)
	}
	record, err := s.refinementRepo.Get(ctx, refinementID)
	if err != nil {
		return nil, wrapNotFound(err, "refinement", refinementID)
	}
	if record.SectionID != section.ID {
		return nil, &NotFoundError{Kind: "refinement", ID: refinementID}
	}

	restoredFrom := record.ID
	return s.apply(ctx, section, &model.Refinement{
		Kind:           model.RefinementKindRestore,
		Prompt:         fmt.Sprintf("restore refinement #%d", record.ID),
		RestoredFromID: &restoredFrom,
	}, record.PreviousContent, eventbus.SectionEventRestored)
}

func (s *RefinementService) apply(ctx context.Context, section *model.Section, record *model.Refinement, content string, eventType eventbus.SectionEventType) (*model.Section, error) {
	record.SectionID = section.ID
	record.PreviousContent = section.Content
	record.NewContent = content
	if err := s.refinementRepo.Apply(ctx, section, record); err != nil {
		klog.Errorf("[RefinementService] 写入历史失败: sectionID=%d, error=%v", section.ID, err)
		return nil, wrapNotFound(err, "section", section.ID)
	}
	klog.V(6).Infof("[RefinementService] 章节内容已更新: sectionID=%d, refinementID=%d, kind=%s", section.ID, record.ID, record.Kind)
	publish(ctx, s.bus, eventbus.SectionEvent{
		Type:         eventType,
		ProjectID:    section.ProjectID,
		SectionID:    section.ID,
		RefinementID: record.ID,
	})
	return section, nil
}

// History 章节历史，按时间倒序
func (s *RefinementService) History(ctx context.Context, sectionID uint) ([]model.Refinement, error) {
	if _, err := s.sectionRepo.Get(ctx, sectionID); err != nil {
		return nil, wrapNotFound(err, "section", sectionID)
	}
	return s.refinementRepo.ListBySection(ctx, sectionID)
}

// Details 章节、历史与反馈的合并视图
func (s *RefinementService) Details(ctx context.Context, sectionID uint) (*model.SectionDetail, error) {
	section, err := s.sectionRepo.Get(ctx, sectionID)
	if err != nil {
		return nil, wrapNotFound(err, "section", sectionID)
	}

	detail := &model.SectionDetail{Section: *section}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.refinementRepo.ListBySection(gctx, sectionID)
		detail.Refinements = list
		return err
	})
	g.Go(func() error {
		list, err := s.feedbackRepo.ListBySection(gctx, sectionID)
		detail.Feedback = list
		return err
	})
	g.Go(func() error {
		latest, err := s.feedbackRepo.GetLatestBySection(gctx, sectionID)
		detail.CurrentFeedback = latest
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

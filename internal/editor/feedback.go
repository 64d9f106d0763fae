package editor

import (
	"context"
	"strings"
	"sync"

	"github.com/divy-03/DocAI/internal/model"
	"k8s.io/klog/v2"
)

// FeedbackCollector 章节反馈
// 态度与评论写在同一条追加记录里，每次写入都会带上另一项的当前值
type FeedbackCollector struct {
	mu      sync.RWMutex
	backend FeedbackBackend
	current map[uint]model.Feedback
}

func NewFeedbackCollector(backend FeedbackBackend) *FeedbackCollector {
	return &FeedbackCollector{backend: backend, current: make(map[uint]model.Feedback)}
}

// SetReaction 设置态度，FeedbackNone 表示取消
func (f *FeedbackCollector) SetReaction(ctx context.Context, sectionID uint, reaction model.FeedbackType) error {
	if !reaction.Valid() {
		return &ValidationError{Message: "Unknown reaction " + string(reaction)}
	}
	current, _ := f.Current(sectionID)
	return f.save(ctx, sectionID, reaction, current.Comment)
}

// SetComment 提交评论，空白内容直接拒绝
func (f *FeedbackCollector) SetComment(ctx context.Context, sectionID uint, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &ValidationError{Message: "Please enter a comment"}
	}
	current, _ := f.Current(sectionID)
	return f.save(ctx, sectionID, current.FeedbackType, text)
}

func (f *FeedbackCollector) save(ctx context.Context, sectionID uint, reaction model.FeedbackType, comment string) error {
	saved, err := f.backend.AddFeedback(ctx, sectionID, reaction, comment)
	if err != nil {
		klog.V(6).Infof("[Feedback] 保存反馈失败: sectionID=%d, error=%v", sectionID, err)
		return newServiceError(err, fallbackFeedback)
	}
	f.mu.Lock()
	f.current[sectionID] = *saved
	f.mu.Unlock()
	return nil
}

// Current 本地缓存的当前反馈
func (f *FeedbackCollector) Current(sectionID uint) (model.Feedback, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	feedback, ok := f.current[sectionID]
	return feedback, ok
}

// Refresh 从后端读取最新一条反馈
func (f *FeedbackCollector) Refresh(ctx context.Context, sectionID uint) error {
	list, err := f.backend.ListFeedback(ctx, sectionID)
	if err != nil {
		return newFetchError(err, "section", sectionID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if latest, ok := newest(list); ok {
		f.current[sectionID] = latest
	} else {
		delete(f.current, sectionID)
	}
	return nil
}

// Comments 带评论的反馈记录，按时间倒序
func (f *FeedbackCollector) Comments(ctx context.Context, sectionID uint) ([]model.Feedback, error) {
	list, err := f.backend.ListFeedback(ctx, sectionID)
	if err != nil {
		return nil, newFetchError(err, "section", sectionID)
	}
	comments := make([]model.Feedback, 0, len(list))
	for _, item := range list {
		if strings.TrimSpace(item.Comment) != "" {
			comments = append(comments, item)
		}
	}
	return comments, nil
}

func (f *FeedbackCollector) Reset() {
	f.mu.Lock()
	f.current = make(map[uint]model.Feedback)
	f.mu.Unlock()
}

func newest(list []model.Feedback) (model.Feedback, bool) {
	if len(list) == 0 {
		return model.Feedback{}, false
	}
	latest := list[0]
	for _, item := range list[1:] {
		if item.CreatedAt.After(latest.CreatedAt) || (item.CreatedAt.Equal(latest.CreatedAt) && item.ID > latest.ID) {
			latest = item
		}
	}
	return latest, true
}

package editor

import (
	"context"
	"sort"

	"github.com/divy-03/DocAI/internal/model"
	"k8s.io/klog/v2"
)

// Confirm 恢复前的确认回调，返回 false 表示放弃
type Confirm func(record model.Refinement) bool

type HistoryViewer struct {
	backend HistoryBackend
}

func NewHistoryViewer(backend HistoryBackend) *HistoryViewer {
	return &HistoryViewer{backend: backend}
}

// LoadHistory 按时间倒序返回历史
// 加载失败时返回空列表和错误，调用方可以继续使用界面
func (h *HistoryViewer) LoadHistory(ctx context.Context, sectionID uint) ([]model.Refinement, error) {
	records, err := h.backend.ListRefinements(ctx, sectionID)
	if err != nil {
		klog.Warningf("[History] 加载历史失败: sectionID=%d, error=%v", sectionID, err)
		return []model.Refinement{}, newFetchError(err, "section", sectionID)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if records == nil {
		records = []model.Refinement{}
	}
	return records, nil
}

// Restore 确认后通过 controller 恢复到该记录之前的内容
// 未确认时不发请求，返回 false
func (h *HistoryViewer) Restore(ctx context.Context, controller *Controller, record model.Refinement, confirm Confirm) (bool, error) {
	if confirm == nil || !confirm(record) {
		return false, nil
	}
	if err := controller.Restore(ctx, record); err != nil {
		return true, err
	}
	return true, nil
}

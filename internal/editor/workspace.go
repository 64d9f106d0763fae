package editor

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

const feedbackWarmupLimit = 4

// Workspace 一个打开的项目的编辑状态
// 持有章节副本、每个章节独立的 Controller、反馈与历史
type Workspace struct {
	mu          sync.Mutex
	backend     Backend
	store       *Store
	feedback    *FeedbackCollector
	history     *HistoryViewer
	controllers map[uint]*Controller
}

func NewWorkspace(backend Backend) *Workspace {
	w := &Workspace{
		backend:     backend,
		store:       NewStore(backend),
		feedback:    NewFeedbackCollector(backend),
		history:     NewHistoryViewer(backend),
		controllers: make(map[uint]*Controller),
	}
	w.store.Observe(audit)
	return w
}

// audit 记录每一次生效的本地修改
func audit(u Update) {
	klog.V(6).Infof("[Workspace] 章节已更新: sectionID=%d, title=%t, content=%t, length=%d",
		u.SectionID, u.Patch.Title != nil, u.Patch.Content != nil, len(u.Section.Content))
}

// Open 加载项目并预取每个章节的当前反馈
// 反馈加载失败只记录日志，该章节视为无反馈
func (w *Workspace) Open(ctx context.Context, projectID uint) error {
	w.Close()
	if err := w.store.Load(ctx, projectID); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedbackWarmupLimit)
	for _, section := range w.store.Sections() {
		sectionID := section.ID
		g.Go(func() error {
			if err := w.feedback.Refresh(gctx, sectionID); err != nil {
				klog.Warningf("[Workspace] 预取反馈失败: sectionID=%d, error=%v", sectionID, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return nil
}

// Controller 返回章节对应的 Controller，按需创建
func (w *Workspace) Controller(sectionID uint) (*Controller, error) {
	if _, ok := w.store.Section(sectionID); !ok {
		return nil, &NotFoundError{Kind: "section", ID: sectionID}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.controllers[sectionID]
	if !ok {
		c = NewController(sectionID, w.store, w.backend)
		w.controllers[sectionID] = c
	}
	return c, nil
}

func (w *Workspace) Store() *Store {
	return w.store
}

func (w *Workspace) Feedback() *FeedbackCollector {
	return w.feedback
}

func (w *Workspace) History() *HistoryViewer {
	return w.history
}

// Close 丢弃全部本地状态，进行中的请求结果不再生效
func (w *Workspace) Close() {
	w.mu.Lock()
	for _, c := range w.controllers {
		c.reset()
	}
	w.controllers = make(map[uint]*Controller)
	w.mu.Unlock()

	w.store.Reset()
	w.feedback.Reset()
}

package editor

import (
	"context"
	"strings"
	"sync"

	"github.com/divy-03/DocAI/internal/model"
	"github.com/divy-03/DocAI/internal/statemachine"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Candidate 预览得到、尚未保存的精修结果
type Candidate struct {
	Prompt          string
	OriginalContent string
	RefinedContent  string
}

// Controller 单个章节的精修流程
// 同一时刻最多一个操作在进行，异步结果通过 ticket 校验，过期结果直接丢弃
type Controller struct {
	mu        sync.Mutex
	sectionID uint
	store     *Store
	backend   RefinementBackend
	sm        *statemachine.RefinementStateMachine
	state     statemachine.RefinementState
	ticket    string
	candidate *Candidate
}

func NewController(sectionID uint, store *Store, backend RefinementBackend) *Controller {
	return &Controller{
		sectionID: sectionID,
		store:     store,
		backend:   backend,
		sm:        statemachine.NewRefinementStateMachine(),
		state:     statemachine.StateIdle,
	}
}

func (c *Controller) SectionID() uint {
	return c.sectionID
}

func (c *Controller) State() statemachine.RefinementState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending 返回待决定的预览结果
func (c *Controller) Pending() (Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.candidate == nil {
		return Candidate{}, false
	}
	return *c.candidate, true
}

// moveTo 调用方需持有锁
func (c *Controller) moveTo(to statemachine.RefinementState) error {
	if err := c.sm.Transition(c.state, to, c.sectionID); err != nil {
		return err
	}
	c.state = to
	return nil
}

// settle 异步操作结束后回落到 to
// 转换表不允许时记录错误并回到 idle，避免 controller 卡在中间状态
func (c *Controller) settle(to statemachine.RefinementState) {
	if err := c.moveTo(to); err != nil {
		klog.Errorf("[Controller] 状态回落失败，重置为 idle: sectionID=%d, error=%v", c.sectionID, err)
		c.candidate = nil
		c.state = statemachine.StateIdle
	}
}

// begin 从 idle 进入 to 并签发新 ticket，调用方需持有锁
func (c *Controller) begin(to statemachine.RefinementState) (string, error) {
	if statemachine.IsBusy(c.state) {
		return "", ErrBusy
	}
	if err := c.moveTo(to); err != nil {
		return "", err
	}
	c.ticket = uuid.NewString()
	return c.ticket, nil
}

// RequestPreview 请求精修预览，成功后进入 preview_ready
func (c *Controller) RequestPreview(ctx context.Context, prompt string) (Candidate, error) {
	if strings.TrimSpace(prompt) == "" {
		return Candidate{}, &ValidationError{Message: "Please enter a refinement prompt"}
	}

	c.mu.Lock()
	if statemachine.IsBusy(c.state) {
		c.mu.Unlock()
		return Candidate{}, ErrBusy
	}
	section, ok := c.store.Section(c.sectionID)
	if !ok {
		c.mu.Unlock()
		return Candidate{}, &NotFoundError{Kind: "section", ID: c.sectionID}
	}
	if !section.HasContent() {
		c.mu.Unlock()
		return Candidate{}, &ValidationError{Message: "This section has no content to refine yet"}
	}
	ticket, err := c.begin(statemachine.StatePreviewRequested)
	c.mu.Unlock()
	if err != nil {
		return Candidate{}, err
	}

	klog.V(6).Infof("[Controller] 请求精修预览: sectionID=%d", c.sectionID)
	preview, err := c.backend.PreviewRefinement(ctx, c.sectionID, prompt)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticket != ticket {
		klog.V(6).Infof("[Controller] 丢弃过期的预览结果: sectionID=%d", c.sectionID)
		return Candidate{}, ErrCanceled
	}
	if err != nil {
		c.ticket = ""
		c.settle(statemachine.StateIdle)
		return Candidate{}, newServiceError(err, fallbackRefine)
	}

	candidate := &Candidate{
		Prompt:          prompt,
		OriginalContent: preview.OriginalContent,
		RefinedContent:  preview.RefinedContent,
	}
	if err := c.moveTo(statemachine.StatePreviewReady); err != nil {
		c.settle(statemachine.StateIdle)
		return Candidate{}, err
	}
	c.candidate = candidate
	return *candidate, nil
}

// Accept 保存待决定的预览结果
// 成功后本地内容与预览内容完全一致；失败时保留预览以便重试
func (c *Controller) Accept(ctx context.Context) error {
	c.mu.Lock()
	if c.state != statemachine.StatePreviewReady || c.candidate == nil {
		state := c.state
		c.mu.Unlock()
		if !statemachine.IsBusy(state) {
			return &ValidationError{Message: "There is no refinement preview to accept"}
		}
		return ErrBusy
	}
	if err := c.moveTo(statemachine.StateAccepting); err != nil {
		c.mu.Unlock()
		return err
	}
	ticket := uuid.NewString()
	c.ticket = ticket
	candidate := *c.candidate
	c.mu.Unlock()

	_, err := c.backend.AcceptRefinement(ctx, c.sectionID, candidate.Prompt, candidate.RefinedContent)

	c.mu.Lock()
	if c.ticket != ticket {
		c.mu.Unlock()
		return ErrCanceled
	}
	c.ticket = ""
	if err != nil {
		c.settle(statemachine.StatePreviewReady)
		c.mu.Unlock()
		klog.V(6).Infof("[Controller] 保存精修失败: sectionID=%d, error=%v", c.sectionID, err)
		return newServiceError(err, fallbackAccept)
	}
	c.candidate = nil
	c.settle(statemachine.StateIdle)
	c.mu.Unlock()

	c.store.ApplyLocalUpdate(c.sectionID, SectionPatch{Content: Text(candidate.RefinedContent)})
	return nil
}

// Reject 放弃预览结果，不发请求
func (c *Controller) Reject() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !statemachine.IsBusy(c.state) {
		return nil
	}
	// 保存中的预览不能放弃
	if !statemachine.HasCandidate(c.state) || c.state == statemachine.StateAccepting {
		return ErrBusy
	}
	c.candidate = nil
	return c.moveTo(statemachine.StateIdle)
}

// Cancel 取消进行中的预览请求，迟到的结果会被丢弃
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != statemachine.StatePreviewRequested {
		return false
	}
	c.ticket = ""
	return c.moveTo(statemachine.StateIdle) == nil
}

// SaveEdit 保存手动编辑，成功后以后端返回的章节为准更新本地内容
func (c *Controller) SaveEdit(ctx context.Context, patch SectionPatch) error {
	if patch.Title == nil && patch.Content == nil {
		return nil
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return &ValidationError{Message: "Section title must not be empty"}
	}

	c.mu.Lock()
	ticket, err := c.begin(statemachine.StateSaving)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	saved, err := c.backend.UpdateSection(ctx, c.sectionID, patch)
	if !c.finish(ticket) {
		return ErrCanceled
	}
	if err != nil {
		return newServiceError(err, fallbackSave)
	}
	confirmed := SectionPatch{}
	if patch.Title != nil {
		confirmed.Title = Text(saved.Title)
	}
	if patch.Content != nil {
		confirmed.Content = Text(saved.Content)
	}
	c.store.ApplyLocalUpdate(c.sectionID, confirmed)
	return nil
}

// Restore 将章节恢复为该记录之前的内容
func (c *Controller) Restore(ctx context.Context, record model.Refinement) error {
	if record.SectionID != c.sectionID {
		return &ValidationError{Message: "This version belongs to a different section"}
	}

	c.mu.Lock()
	ticket, err := c.begin(statemachine.StateRestoring)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	klog.V(6).Infof("[Controller] 恢复历史版本: sectionID=%d, refinementID=%d", c.sectionID, record.ID)
	restored, err := c.backend.RestoreRefinement(ctx, c.sectionID, record.ID)
	if !c.finish(ticket) {
		return ErrCanceled
	}
	if err != nil {
		return newServiceError(err, fallbackRestore)
	}
	c.store.ApplyLocalUpdate(c.sectionID, SectionPatch{Content: Text(restored.Content)})
	return nil
}

// finish 结束 saving/restoring 并回到 idle，ticket 过期时返回 false
func (c *Controller) finish(ticket string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticket != ticket {
		return false
	}
	c.ticket = ""
	c.settle(statemachine.StateIdle)
	return true
}

// reset 丢弃全部状态，进行中的请求结果将被忽略
func (c *Controller) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticket = ""
	c.candidate = nil
	c.state = statemachine.StateIdle
}

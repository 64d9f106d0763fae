package statemachine

import (
	"fmt"

	"k8s.io/klog/v2"
)

// RefinementState 单个章节编辑上下文的状态
type RefinementState string

const (
	StateIdle             RefinementState = "idle"              // 无进行中的操作
	StatePreviewRequested RefinementState = "preview_requested" // 已提交指令，等待预览结果
	StatePreviewReady     RefinementState = "preview_ready"     // 预览已返回，等待用户决定
	StateAccepting        RefinementState = "accepting"         // 正在保存预览结果
	StateRestoring        RefinementState = "restoring"         // 正在恢复历史版本
	StateSaving           RefinementState = "saving"            // 正在保存手动编辑
)

// Transition 状态迁移
type Transition struct {
	From RefinementState
	To   RefinementState
}

// RefinementStateMachine 精修流程状态机
type RefinementStateMachine struct {
	allowedTransitions map[Transition]bool
}

// NewRefinementStateMachine 创建精修流程状态机
func NewRefinementStateMachine() *RefinementStateMachine {
	sm := &RefinementStateMachine{
		allowedTransitions: make(map[Transition]bool),
	}

	// idle -> preview_requested -> preview_ready -> accepting -> idle
	transitions := []Transition{
		// 预览
		{StateIdle, StatePreviewRequested},
		{StatePreviewRequested, StatePreviewReady},
		{StatePreviewRequested, StateIdle}, // 预览失败或取消

		// 用户决定
		{StatePreviewReady, StateAccepting},
		{StatePreviewReady, StateIdle}, // 拒绝，仅本地
		{StateAccepting, StateIdle},
		{StateAccepting, StatePreviewReady}, // 保存失败，保留候选内容

		// 直接替换内容
		{StateIdle, StateRestoring},
		{StateRestoring, StateIdle},
		{StateIdle, StateSaving},
		{StateSaving, StateIdle},
	}

	for _, t := range transitions {
		sm.allowedTransitions[t] = true
	}

	return sm
}

// CanTransition 检查状态迁移是否合法
func (sm *RefinementStateMachine) CanTransition(from, to RefinementState) bool {
	if from == to {
		return false
	}
	return sm.allowedTransitions[Transition{From: from, To: to}]
}

// ValidateTransition 验证状态迁移并返回错误
func (sm *RefinementStateMachine) ValidateTransition(from, to RefinementState) error {
	if !sm.CanTransition(from, to) {
		return &InvalidStateTransitionError{
			From: string(from),
			To:   string(to),
		}
	}
	return nil
}

// Transition 执行状态迁移（带日志）
func (sm *RefinementStateMachine) Transition(from, to RefinementState, sectionID uint) error {
	if err := sm.ValidateTransition(from, to); err != nil {
		klog.V(6).Infof("精修状态迁移被拒绝: sectionID=%d, %s -> %s, error=%v", sectionID, from, to, err)
		return err
	}
	klog.V(6).Infof("精修状态迁移成功: sectionID=%d, %s -> %s", sectionID, from, to)
	return nil
}

// InvalidStateTransitionError 无效的状态迁移错误
type InvalidStateTransitionError struct {
	From string
	To   string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid refinement state transition: %s -> %s", e.From, e.To)
}

// IsBusy 是否有操作占用该编辑上下文
func IsBusy(state RefinementState) bool {
	return state != StateIdle
}

// HasCandidate 是否持有待决定的预览内容
func HasCandidate(state RefinementState) bool {
	return state == StatePreviewReady || state == StateAccepting
}

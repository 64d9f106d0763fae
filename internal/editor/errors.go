package editor

import (
	"errors"
	"fmt"

	"github.com/divy-03/DocAI/internal/client"
)

const (
	fallbackRefine   = "Failed to refine section"
	fallbackAccept   = "Failed to save refined content"
	fallbackRestore  = "Failed to restore version"
	fallbackSave     = "Failed to save section"
	fallbackFeedback = "Failed to save feedback"
)

var (
	// ErrBusy 同一章节已有操作在进行，新请求被拒绝而不是排队
	ErrBusy = errors.New("another operation is already in progress for this section")
	// ErrCanceled 请求在返回前被取消，结果已丢弃
	ErrCanceled = errors.New("the request was cancelled")
)

// ValidationError 本地校验失败，未发出任何请求
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FetchError 从后端加载数据失败
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	var nf *NotFoundError
	if errors.As(e.Err, &nf) {
		return nf.Error()
	}
	return fmt.Sprintf("failed to load data: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RefinementServiceError 后端操作失败
// Error 优先返回后端给出的原因，否则返回通用提示
type RefinementServiceError struct {
	Detail   string
	Fallback string
	Err      error
}

func (e *RefinementServiceError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Fallback != "" {
		return e.Fallback
	}
	return fallbackRefine
}

func (e *RefinementServiceError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	Kind string
	ID   uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func newServiceError(err error, fallback string) *RefinementServiceError {
	serviceErr := &RefinementServiceError{Fallback: fallback, Err: err}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		serviceErr.Detail = apiErr.Detail
	}
	return serviceErr
}

func newFetchError(err error, kind string, id uint) *FetchError {
	if client.IsNotFound(err) {
		return &FetchError{Err: &NotFoundError{Kind: kind, ID: id}}
	}
	return &FetchError{Err: err}
}

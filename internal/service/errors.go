package service

import (
	"errors"
	"fmt"

	"github.com/divy-03/DocAI/internal/repository"
)

// ErrInvalidInput 请求参数不合法
var ErrInvalidInput = errors.New("invalid input")

// ErrNoContent 章节尚未生成内容，无法精修
var ErrNoContent error = &InputError{Message: "cannot refine section without existing content"}

// InputError 可直接展示给用户的参数错误
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidf(format string, args ...any) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError 资源不存在，可用 errors.Is(err, repository.ErrNotFound) 判断
type NotFoundError struct {
	Kind string
	ID   uint
}

func (e *NotFoundError) Error() string {
	return e.Kind + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return repository.ErrNotFound
}

// wrapNotFound 将仓库层的 ErrNotFound 转为带资源类型的错误
func wrapNotFound(err error, kind string, id uint) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return err
}

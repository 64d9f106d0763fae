package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/divy-03/DocAI/internal/repository"
	"github.com/divy-03/DocAI/internal/service"
	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
)

// writeError 将业务错误映射为 HTTP 状态码
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		klog.Errorf("请求处理失败: %s %s, error=%v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseID 解析路径中的数字 ID，失败时直接写入 400
func parseID(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + label + " id"})
		return 0, false
	}
	return uint(id), true
}

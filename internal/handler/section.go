package handler

import (
	"net/http"

	"github.com/divy-03/DocAI/internal/service"
	"github.com/gin-gonic/gin"
)

type SectionHandler struct {
	service *service.SectionService
}

func NewSectionHandler(service *service.SectionService) *SectionHandler {
	return &SectionHandler{service: service}
}

// Update 手动编辑章节
func (h *SectionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "section")
	if !ok {
		return
	}
	var req service.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/divy-03/DocAI/internal/model"
	"github.com/divy-03/DocAI/internal/service"
	"github.com/gin-gonic/gin"
)

type GenerationHandler struct {
	service *service.GenerationService
}

func NewGenerationHandler(service *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// GenerateProject 生成项目全部章节
func (h *GenerationHandler) GenerateProject(c *gin.Context) {
	id, ok := parseID(c, "id", "project")
	if !ok {
		return
	}
	project, err := h.service.GenerateProject(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// GenerateSection 重新生成单个章节
func (h *GenerationHandler) GenerateSection(c *gin.Context) {
	projectID, ok := parseID(c, "id", "project")
	if !ok {
		return
	}
	sectionID, ok := parseID(c, "section_id", "section")
	if !ok {
		return
	}
	section, err := h.service.GenerateSection(c.Request.Context(), projectID, sectionID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

// GenerateOutline 根据主题生成大纲
func (h *GenerationHandler) GenerateOutline(c *gin.Context) {
	count := 5
	if raw := c.Query("section_count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid section_count"})
			return
		}
		count = n
	}

	outline, err := h.service.GenerateOutline(c.Request.Context(), c.Query("topic"), model.DocumentType(c.Query("document_type")), count)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, outline)
}

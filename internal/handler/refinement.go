package handler

import (
	"net/http"

	"github.com/divy-03/DocAI/internal/service"
	"github.com/gin-gonic/gin"
)

type RefinementHandler struct {
	refinements *service.RefinementService
	feedback    *service.FeedbackService
}

func NewRefinementHandler(refinements *service.RefinementService, feedback *service.FeedbackService) *RefinementHandler {
	return &RefinementHandler{refinements: refinements, feedback: feedback}
}

type refinePromptRequest struct {
	Prompt string `json:"prompt"`
}

type refineAcceptRequest struct {
	Prompt  string `json:"prompt"`
	Content string `json:"content"`
}

type restoreRequest struct {
	RefinementID uint `json:"refinement_id" binding:"required"`
}

// Preview 生成精修预览，不保存
func (h *RefinementHandler) Preview(c *gin.Context) {
	id, ok := parseID(c, "id", "section")
	if !ok {
		return
	}
	var req refinePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview, err := h.refinements.Preview(c.Request.Context(), id, req.Prompt)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

// Accept 保存预览结果并记录历史
func (h *RefinementHandler) Accept(c *gin.Context) {
	id, ok := parseID(c, "id", "section")
	if !ok {
		return
	}
	var req refineAcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.refinements.Accept(c.Request.Context(), id, req.Prompt, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

// Refine 生成并直接保存
func (h *RefinementHandler) Refine(c *gin.Context) {
	id, ok := parseID(c, "id", "section")
	if !ok {
		return
	}
	var req refinePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.refinements.Refine(c.Request.Context(), id, req.Prompt)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

// Restore 恢复到某条历史记录之前的内容
func (h *RefinementHandler) Restore(c *gin.Context) {
	id, ok := parseID(c, "id", "section")
	if !ok {
		return
	}
	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.refinements.Restore(c.Request.Context(), id, req.RefinementID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

// History 章节历史记录
func (h *RefinementHandler) History(c *gin.Context) {
	id, ok := parseID(c, "id", "section")
	if !ok {
		return
	}
	records, err := h.refinements.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// AddFeedback 追加章节反馈
func (h *RefinementHandler) AddFeedback(c *gin.Context) {
	id, ok := parseID(c, "id", "section")
	if !ok {
		return
	}
	var req service.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := h.feedback.Add(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, feedback)
}

func (h *RefinementHandler) ListFeedback(c *gin.Context) {
	id, ok := parseID(c, "id", "section")
	if !ok {
		return
	}
	list, err := h.feedback.List(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Details 章节、历史与反馈
func (h *RefinementHandler) Details(c *gin.Context) {
	id, ok := parseID(c, "id", "section")
	if !ok {
		return
	}
	detail, err := h.refinements.Details(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

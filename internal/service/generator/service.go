package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/divy-03/DocAI/config"
	"github.com/divy-03/DocAI/internal/model"
	"github.com/divy-03/DocAI/internal/utils"
	"k8s.io/klog/v2"
)

// Completer 文本补全能力，由 llm.ChatModel 实现
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// SectionRequest 单个章节生成参数
type SectionRequest struct {
	Topic        string
	SectionTitle string
	DocumentType model.DocumentType
	Context      string
}

// Service 章节内容、大纲与精修的 AI 生成服务
type Service struct {
	llm Completer
	cfg config.GenerationConfig
}

func New(llm Completer, cfg config.GenerationConfig) *Service {
	return &Service{llm: llm, cfg: cfg}
}

// WordCount 不同文档类型的目标字数
func (s *Service) WordCount(documentType model.DocumentType) int {
	if documentType == model.DocumentTypePptx {
		return s.cfg.PptxWordCount
	}
	return s.cfg.DocxWordCount
}

// GenerateSection 生成一个章节的正文
func (s *Service) GenerateSection(ctx context.Context, req SectionRequest) (string, error) {
	klog.V(6).Infof("[Generator] 生成章节: title=%s, type=%s, contextLength=%d", req.SectionTitle, req.DocumentType, len(req.Context))
	content, err := s.llm.Complete(ctx, systemPrompt, sectionPrompt(req, s.WordCount(req.DocumentType)))
	if err != nil {
		return "", fmt.Errorf("generate section %q: %w", req.SectionTitle, err)
	}
	return utils.StripCodeFence(content), nil
}

// GenerateOutline 生成章节标题列表
func (s *Service) GenerateOutline(ctx context.Context, topic string, documentType model.DocumentType, count int) ([]string, error) {
	klog.V(6).Infof("[Generator] 生成大纲: topic=%s, type=%s, count=%d", topic, documentType, count)
	text, err := s.llm.Complete(ctx, systemPrompt, outlinePrompt(topic, documentType, count))
	if err != nil {
		return nil, fmt.Errorf("generate outline: %w", err)
	}
	titles := ParseOutline(text, count)
	if len(titles) == 0 {
		return nil, fmt.Errorf("generate outline: no titles in response")
	}
	return titles, nil
}

// Refine 按用户指令改写已有内容
func (s *Service) Refine(ctx context.Context, original, instruction string) (string, error) {
	klog.V(6).Infof("[Generator] 精修内容: originalLength=%d", len(original))
	content, err := s.llm.Complete(ctx, systemPrompt, refinePrompt(original, instruction))
	if err != nil {
		return "", fmt.Errorf("refine content: %w", err)
	}
	return utils.StripCodeFence(content), nil
}

var (
	numberedLine = regexp.MustCompile(`^\d+\s*[.)、:]\s*`)
	bulletLine   = regexp.MustCompile(`^[-*•]\s*`)
)

// ParseOutline 从编号或列表格式的文本中提取标题，最多返回 count 个
func ParseOutline(text string, count int) []string {
	var titles []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var title string
		switch {
		case numberedLine.MatchString(line):
			title = numberedLine.ReplaceAllString(line, "")
		case bulletLine.MatchString(line):
			title = bulletLine.ReplaceAllString(line, "")
		default:
			continue
		}

		title = strings.TrimSpace(strings.Trim(title, "*_`\"'"))
		if title == "" {
			continue
		}
		titles = append(titles, title)
		if count > 0 && len(titles) == count {
			break
		}
	}
	return titles
}

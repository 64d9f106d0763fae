package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/divy-03/DocAI/config"
	"golang.org/x/time/rate"
	"k8s.io/klog/v2"
)

// ErrEmptyResponse 模型返回了空内容
var ErrEmptyResponse = errors.New("empty response from LLM")

// Generator eino ChatModel 的最小子集，便于替换/Mock
type Generator interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// ChatModel 封装 Eino OpenAI ChatModel，附带调用限速与超时
type ChatModel struct {
	generator Generator
	limiter   *rate.Limiter
	timeout   time.Duration
}

// NewChatModel 根据配置创建 OpenAI 兼容的 ChatModel
func NewChatModel(cfg *config.Config) (*ChatModel, error) {
	klog.V(6).Infof("[ChatModel] 创建 OpenAI ChatModel: model=%s, baseURL=%s", cfg.LLM.Model, cfg.LLM.APIURL)

	modelConfig := &openai.ChatModelConfig{
		APIKey: cfg.LLM.APIKey,
		Model:  cfg.LLM.Model,
	}
	if cfg.LLM.APIURL != "" {
		modelConfig.BaseURL = cfg.LLM.APIURL
	}
	if cfg.LLM.MaxTokens > 0 {
		maxTokens := cfg.LLM.MaxTokens
		modelConfig.MaxTokens = &maxTokens
	}

	chatModel, err := openai.NewChatModel(context.Background(), modelConfig)
	if err != nil {
		klog.Errorf("[ChatModel] 创建 ChatModel 失败: %v", err)
		return nil, err
	}

	klog.V(6).Infof("[ChatModel] ChatModel 创建成功")
	return NewChatModelWith(chatModel, cfg.LLM.RequestsPerSecond, cfg.LLM.Burst, cfg.LLM.Timeout), nil
}

// NewChatModelWith 使用给定的 Generator 创建 ChatModel
// rps <= 0 时不限速，timeout <= 0 时不设置单次调用超时
func NewChatModelWith(generator Generator, rps float64, burst int, timeout time.Duration) *ChatModel {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if burst < 1 {
		burst = 1
	}
	return &ChatModel{
		generator: generator,
		limiter:   rate.NewLimiter(limit, burst),
		timeout:   timeout,
	}
}

// Complete 发送 system + user 两条消息，返回去除首尾空白的文本
func (m *ChatModel) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("wait for rate limiter: %w", err)
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	messages := make([]*schema.Message, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, schema.SystemMessage(systemPrompt))
	}
	messages = append(messages, schema.UserMessage(userPrompt))

	klog.V(6).Infof("[ChatModel] Generate 开始: messageCount=%d", len(messages))
	klog.V(8).Infof("[ChatModel] user prompt=%s", userPrompt)

	resp, err := m.generator.Generate(ctx, messages)
	if err != nil {
		klog.Errorf("[ChatModel] Generate 失败: %v", err)
		return "", err
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	klog.V(6).Infof("[ChatModel] Generate 完成: responseLength=%d", len(content))
	return content, nil
}

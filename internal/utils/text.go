package utils

import (
	"strings"
	"unicode/utf8"

	"k8s.io/klog/v2"
)

const codeFence = "```"

// StripCodeFence 模型有时把整段正文包在 ``` 代码块里，去掉外层代码块
// 正文中间的代码块保持不变
func StripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, codeFence) || !strings.HasSuffix(trimmed, codeFence) || len(trimmed) < 2*len(codeFence) {
		return trimmed
	}

	body := strings.TrimSuffix(trimmed[len(codeFence):], codeFence)
	// 第一行是语言标识，例如 ```markdown
	newline := strings.IndexByte(body, '\n')
	if newline < 0 {
		return trimmed
	}
	if tag := strings.TrimSpace(body[:newline]); strings.ContainsAny(tag, " \t") {
		return trimmed
	}
	body = body[newline+1:]
	if strings.Contains(body, codeFence) {
		return trimmed
	}

	klog.V(6).Infof("[StripCodeFence] 去除外层代码块: before=%d, after=%d", len(trimmed), len(body))
	return strings.TrimSpace(body)
}

// Truncate 按字符截断，不会切断多字节字符
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

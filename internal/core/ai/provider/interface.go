package provider

import (
	"context"
	"strings"
)

// ErrorPrefix 舊版模型呼叫以字串回報錯誤時使用的前綴
const ErrorPrefix = "Error"

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示發送到 AI 提供者的請求
type Request struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Usage token 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response 表示從 AI 提供者收到的響應
type Response struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Provider 定義 AI 提供者介面
type Provider interface {
	// Generate 生成 AI 響應
	Generate(ctx context.Context, req *Request) (*Response, error)

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// Close 關閉提供者連接
	Close() error
}

// Completer 是管線唯一依賴的模型呼叫：輸入 prompt，回傳模型文字
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc 讓一般函式實作 Completer
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

// Complete 實作 Completer
func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// IsErrorText 判斷模型回傳的是不是以 "Error" 開頭的錯誤字串
func IsErrorText(text string) bool {
	return strings.HasPrefix(text, ErrorPrefix)
}

// UserPrompt 建立單一使用者訊息的請求
func UserPrompt(prompt string, maxTokens int) *Request {
	return &Request{
		Messages:    []Message{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	}
}

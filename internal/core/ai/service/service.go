package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/ai/queue"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Options AI 服務參數
type Options struct {
	Timeout   time.Duration
	MaxTokens int
}

// Service AI 服務：快取、併發限制與逾時包在模型呼叫外層
type Service struct {
	provider provider.Provider
	cache    cache.Cache
	queue    *queue.Manager
	opts     Options
}

// NewService 創建 AI 服務；c 為 nil 時不使用快取
func NewService(p provider.Provider, c cache.Cache, q *queue.Manager, opts Options) *Service {
	if q == nil {
		q = queue.NewManager(1)
	}
	return &Service{
		provider: p,
		cache:    c,
		queue:    q,
		opts:     opts,
	}
}

// normalizePrompt 統一空白，確保快取 key 一致
func normalizePrompt(prompt string) string {
	return strings.Join(strings.Fields(prompt), " ")
}

// Complete 送出 prompt 並回傳模型文字
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", common.WrapError(common.ErrInvalidRequest, errors.New("empty prompt"))
	}

	key := cache.Key(s.provider.GetModel(), normalizePrompt(prompt))
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, key); err == nil && val != "" {
			common.LogDebug("AI response served from cache", zap.String("model", s.provider.GetModel()))
			return val, nil
		}
	}

	if err := s.queue.Acquire(ctx); err != nil {
		return "", err
	}
	defer s.queue.Release()

	callCtx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.provider.Generate(callCtx, provider.UserPrompt(prompt, s.opts.MaxTokens))
	common.LogAICall(s.provider.GetModel(), time.Since(start), err)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", common.WrapError(common.ErrGatewayTimeout, err)
		}
		return "", common.WrapError(common.ErrAIServiceError, err)
	}

	if s.cache != nil && !provider.IsErrorText(resp.Content) {
		if err := s.cache.Set(ctx, key, resp.Content); err != nil {
			common.LogWarn("Failed to cache AI response", zap.Error(err))
		}
	}

	return resp.Content, nil
}

// Model 回傳目前使用的模型名稱
func (s *Service) Model() string {
	return s.provider.GetModel()
}

// QueueStatus 回傳呼叫名額使用狀態
func (s *Service) QueueStatus() *queue.Status {
	return s.queue.GetQueueStatus()
}

// CacheStats 回傳快取統計；未啟用時為 nil
func (s *Service) CacheStats() map[string]interface{} {
	if s.cache == nil {
		return nil
	}
	return s.cache.Stats()
}

// Close 釋放提供者與快取
func (s *Service) Close() error {
	var errs []error
	if err := s.provider.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/ai/queue"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

type fakeProvider struct {
	calls   int32
	content string
	err     error
	delay   time.Duration
	last    *provider.Request
}

func (f *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	atomic.AddInt32(&f.calls, 1)
	f.last = req
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.content}, nil
}

func (f *fakeProvider) GetModel() string { return "fake-model" }
func (f *fakeProvider) Close() error     { return nil }

func TestCompleteUsesCache(t *testing.T) {
	p := &fakeProvider{content: `{"days":[]}`}
	c := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Hour})
	s := NewService(p, c, queue.NewManager(2), Options{Timeout: time.Second})
	defer s.Close()

	ctx := context.Background()
	for _, prompt := range []string{"plan  my\nweek", "plan my week"} {
		got, err := s.Complete(ctx, prompt)
		if err != nil {
			t.Fatalf("complete: %v", err)
		}
		if got != p.content {
			t.Fatalf("got %q", got)
		}
	}

	if n := atomic.LoadInt32(&p.calls); n != 1 {
		t.Fatalf("expected provider to be called once, got %d", n)
	}
	if p.last.Messages[0].Content != "plan  my\nweek" {
		t.Fatalf("prompt should be sent unmodified, got %q", p.last.Messages[0].Content)
	}
}

func TestCompleteDoesNotCacheErrorText(t *testing.T) {
	p := &fakeProvider{content: "Error calling API: timeout"}
	c := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Hour})
	s := NewService(p, c, nil, Options{})

	for i := 0; i < 2; i++ {
		if _, err := s.Complete(context.Background(), "list"); err != nil {
			t.Fatal(err)
		}
	}
	if n := atomic.LoadInt32(&p.calls); n != 2 {
		t.Fatalf("error text should not be cached, provider called %d times", n)
	}
}

func TestCompleteWrapsProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("boom")}
	s := NewService(p, nil, nil, Options{})

	_, err := s.Complete(context.Background(), "list")
	if !errors.Is(err, common.ErrAIServiceError) {
		t.Fatalf("expected AI service error, got %v", err)
	}
}

func TestCompleteTimeout(t *testing.T) {
	p := &fakeProvider{content: "late", delay: time.Second}
	s := NewService(p, nil, nil, Options{Timeout: 20 * time.Millisecond})

	_, err := s.Complete(context.Background(), "list")
	if !errors.Is(err, common.ErrGatewayTimeout) {
		t.Fatalf("expected gateway timeout, got %v", err)
	}
}

func TestCompleteRejectsEmptyPrompt(t *testing.T) {
	s := NewService(&fakeProvider{}, nil, nil, Options{})
	if _, err := s.Complete(context.Background(), "  "); !errors.Is(err, common.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}

package queue

import (
	"context"
	"sync/atomic"

	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

// Status 隊列狀態
type Status struct {
	InFlight       int   `json:"in_flight"`
	Waiting        int   `json:"waiting"`
	MaxInFlight    int   `json:"max_in_flight"`
	ProcessedCount int64 `json:"processed_count"`
	RejectedCount  int64 `json:"rejected_count"`
}

// Manager 限制同時進行中的模型呼叫數量
type Manager struct {
	slots     chan struct{}
	waiting   int64
	processed int64
	rejected  int64
}

// NewManager 創建新的隊列管理器；maxInFlight 小於 1 時視為 1
func NewManager(maxInFlight int) *Manager {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Manager{slots: make(chan struct{}, maxInFlight)}
}

// Acquire 取得一個呼叫名額，context 結束前無名額則放棄
func (m *Manager) Acquire(ctx context.Context) error {
	select {
	case m.slots <- struct{}{}:
		return nil
	default:
	}

	atomic.AddInt64(&m.waiting, 1)
	defer atomic.AddInt64(&m.waiting, -1)

	common.LogDebug("Waiting for AI slot",
		zap.Int("in_flight", len(m.slots)),
		zap.Int("max_in_flight", cap(m.slots)),
	)

	select {
	case m.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		atomic.AddInt64(&m.rejected, 1)
		return common.WrapError(common.ErrQueueFull, ctx.Err())
	}
}

// Release 歸還名額
func (m *Manager) Release() {
	select {
	case <-m.slots:
		atomic.AddInt64(&m.processed, 1)
	default:
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		InFlight:       len(m.slots),
		Waiting:        int(atomic.LoadInt64(&m.waiting)),
		MaxInFlight:    cap(m.slots),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		RejectedCount:  atomic.LoadInt64(&m.rejected),
	}
}

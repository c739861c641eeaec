package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

// Cache 模型回應快取
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Stats() map[string]interface{}
	Close() error
}

// Key 以 prompt 與模型名稱產生快取鍵
func Key(model, prompt string) string {
	hash := sha256.Sum256([]byte(model + "\x00" + prompt))
	return "ai:response:" + hex.EncodeToString(hash[:])
}

// New 依設定建立快取後端；停用時回傳 nil
func New(cfg config.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	switch cfg.Backend {
	case config.CacheBackendRedis:
		r, err := NewRedis(cfg)
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.CacheBackendMemory, "":
		return NewManager(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}
}

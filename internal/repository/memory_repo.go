package repository

import (
	"context"
)

// MemoryResult 是向量检索命中的一条描述记忆
type MemoryResult struct {
	ImageID   uint
	Content   string
	Score     float32
	Timestamp int64
}

// MemoryRepo 定义了图片描述向量记忆的接口
// 具体实现在 internal/infrastructure/vectordb
type MemoryRepo interface {
	SaveMemory(ctx context.Context, userID string, imageID uint, description string, vector []float32) error
	SearchSimilar(ctx context.Context, userID string, limit int, queryVector []float32) ([]MemoryResult, error)
}

package embedding

import "context"

// Provider 定义了将文本转换为向量的能力
// 这里的文本是 AI 生成的图片描述或者用户的搜索词
type Provider interface {
	// GetVector 输入文本，返回 float32 数组
	GetVector(ctx context.Context, text string) ([]float32, error)
}

package llm

import "context"

// Provider 定义了视觉模型的通用行为
type Provider interface {
	// DescribeImage 接收图片原始字节和 MIME 类型，返回文字描述
	DescribeImage(ctx context.Context, data []byte, mimeType string) (string, error)
}

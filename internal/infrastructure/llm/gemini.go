package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leon37/PicDiary/internal/model"
	"github.com/sashabaranov/go-openai"
)

// Gemini 提供 OpenAI 兼容端点，所以底层直接复用 go-openai，
// 只需要把 BaseURL 指到 generativelanguage 的 /openai 路径
type GeminiClient struct {
	modelName string
	client    *openai.Client
}

func NewGeminiClient(apiKey, baseURL, modelName string) *GeminiClient {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &GeminiClient{
		modelName: modelName,
		client:    openai.NewClientWithConfig(config),
	}
}

func (g *GeminiClient) DescribeImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image data")
	}

	// 图片以 data URI 内联，不走文件上传接口
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	req := openai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: model.VisionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: dataURI,
						},
					},
				},
			},
		},
		Temperature: 0.1,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("vision api call failed", "model", g.modelName, "err", err)
		return "", fmt.Errorf("vision api call failed: %w", err)
	}

	// 取第一个候选的文本内容，空响应按错误处理
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("vision api returned empty response")
	}

	return resp.Choices[0].Message.Content, nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/leon37/PicDiary/internal/config"
	"github.com/leon37/PicDiary/internal/infrastructure/llm"
)

// 视觉模型冒烟测试：go run ./cmd/test_vision 本地图片路径...
func main() {
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}
	log.Println("配置加载成功")

	llmClient := llm.NewGeminiClient(conf.Gemini.APIKey, conf.Gemini.BaseURL, conf.Gemini.Model)

	paths := os.Args[1:]
	if len(paths) == 0 {
		log.Fatal("用法: test_vision <图片路径> [更多图片...]")
	}

	ctx := context.Background()

	for _, path := range paths {
		fmt.Printf("\n-------- 测试: %s --------\n", path)

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("❌ 读取失败: %v\n", err)
			continue
		}
		mimeType := http.DetectContentType(data)
		fmt.Printf("检测类型: %s, 大小: %d bytes\n", mimeType, len(data))

		start := time.Now()
		description, err := llmClient.DescribeImage(ctx, data, mimeType)
		duration := time.Since(start)

		if err != nil {
			log.Printf("❌ 调用失败: %v\n", err)
			continue
		}

		fmt.Printf("✅ 调用成功 (耗时 %v)\n", duration)
		fmt.Printf("描述:\n%s\n", description)
	}
}

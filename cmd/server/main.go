package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leon37/PicDiary/internal/api"
	"github.com/leon37/PicDiary/internal/api/controller"
	"github.com/leon37/PicDiary/internal/config"
	"github.com/leon37/PicDiary/internal/infrastructure/database"
	"github.com/leon37/PicDiary/internal/infrastructure/embedding"
	"github.com/leon37/PicDiary/internal/infrastructure/llm"
	"github.com/leon37/PicDiary/internal/infrastructure/storage"
	"github.com/leon37/PicDiary/internal/infrastructure/vectordb"
	"github.com/leon37/PicDiary/internal/repository"
	"github.com/leon37/PicDiary/internal/service"
)

// @title           PicDiary API
// @version         1.0
// @description     基于 Go + Gin + Gemini 的 AI 看图日记

// @host            localhost:3000
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 请在输入框中输入 "Bearer <token>" (注意 Bearer 和 token 之间有空格)

func main() {
	// 1. 初始化 Logger
	// 使用 JSONHandler 可以让日志以 JSON 格式输出，方便解析
	// AddSource: true 会在日志里显示文件名和行号
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug, // 开发阶段设为 Debug，生产环境改为 Info
	}))

	// 设置为全局默认 logger
	slog.SetDefault(logger)

	slog.Info("PicDiary 系统启动中...")

	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}
	log.Println("配置加载成功")

	// 2. Infra Initialization
	llmClient := llm.NewGeminiClient(conf.Gemini.APIKey, conf.Gemini.BaseURL, conf.Gemini.Model)
	db := database.NewMySQLConnection(conf.Database.DSN) // 这里会自动建表

	store, err := storage.NewLocalStore(conf.Server.UploadDir)
	if err != nil {
		log.Fatalf("Fatal: 无法初始化上传目录: %v", err)
	}

	vecClient, err := vectordb.NewQdrantClient(conf.Qdrant.Host, conf.Qdrant.Port)
	if err != nil {
		log.Fatalf("Failed to init Vector DB: %v", err)
	}
	defer vecClient.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := vecClient.InitCollection(ctx); err != nil {
		// 如果初始化失败（比如连不上，或者无法创建），直接崩盘退出
		// 这是为了防止后续业务运行时报错
		log.Fatalf("Failed to init Qdrant collection: %v", err)
	}

	if conf.Server.Port != ":3000" { // 简单的判断，生产环境建议用配置字段
		gin.SetMode(gin.ReleaseMode)
	}

	embedder := embedding.NewOpenAIClient(conf.OpenAI.APIKey, conf.OpenAI.BaseURL, conf.OpenAI.Model)

	// 3. Layer Wiring (依赖注入)
	imageRepo := repository.NewImageRepo(db)
	memoryRepo := vectordb.NewQdrantRepository(vecClient)
	imageSvc := service.NewImageService(llmClient, embedder, imageRepo, memoryRepo, store)

	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewAuthService(userRepo, conf.JWT.Secret, conf.JWT.ExpireHours)

	// 4. Server Start
	r := gin.Default()
	imageController := controller.NewImageController(imageSvc)
	authController := controller.NewAuthController(authSvc)
	api.RegisterRoutes(r, conf.JWT.Secret, conf.Server.UploadDir, authController, imageController)

	slog.Info("PicDiary Web Server 启动中", "port", conf.Server.Port)
	if err := r.Run(conf.Server.Port); err != nil {
		slog.Error("服务器启动失败", "error", err)
	}
}

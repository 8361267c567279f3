package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leon37/PicDiary/internal/infrastructure/embedding"
	"github.com/leon37/PicDiary/internal/infrastructure/llm"
	"github.com/leon37/PicDiary/internal/infrastructure/storage"
	"github.com/leon37/PicDiary/internal/model"
	"github.com/leon37/PicDiary/internal/repository"
)

// ErrAnalysis 表示外部视觉服务调用失败
var ErrAnalysis = errors.New("image analysis failed")

// DefaultHistoryLimit 历史记录单次最多返回的条数
const DefaultHistoryLimit = 50

// UploadInput 是前端传来的原始参数 (DTO)
type UploadInput struct {
	UserID       string
	OriginalName string
	MimeType     string
	Data         []byte
}

// ImageService 定义业务逻辑
type ImageService struct {
	llmClient  llm.Provider // 依赖接口，而不是具体 struct！(关键点)
	embedder   embedding.Provider
	repo       repository.ImageRepo
	memoryRepo repository.MemoryRepo
	store      storage.Store
}

// NewImageService 构造函数 (依赖注入)
func NewImageService(llmClient llm.Provider, embedder embedding.Provider, repo repository.ImageRepo, memory repository.MemoryRepo, store storage.Store) *ImageService {
	return &ImageService{
		llmClient:  llmClient,
		embedder:   embedder,
		repo:       repo,
		memoryRepo: memory,
		store:      store,
	}
}

// AnalyzeAndSave 处理一次完整的上传请求：落盘 → 调视觉模型 → 落库
// 落盘之后任何一步失败都会把文件删掉再返回错误，磁盘上不留孤儿文件
func (s *ImageService) AnalyzeAndSave(ctx context.Context, input UploadInput) (entity *model.ImageEntity, retErr error) {
	slog.Info("收到图片分析请求",
		"uid", input.UserID,
		"filename", input.OriginalName,
		"size", len(input.Data))

	// 1. 先把文件写进上传目录
	filename, err := s.store.Save(input.OriginalName, input.Data)
	if err != nil {
		return nil, err
	}

	// 文件写入之后的所有失败路径都从这一个出口回滚
	defer func() {
		if retErr != nil {
			if err := s.store.Remove(filename); err != nil {
				slog.Error("回滚删除文件失败", "filename", filename, "error", err)
			}
		}
	}()

	// 2. 调视觉模型拿描述
	description, err := s.llmClient.DescribeImage(ctx, input.Data, input.MimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}

	// 3. 实体转换 & 落库
	entity = &model.ImageEntity{
		UserID:      input.UserID,
		Filename:    filename,
		URL:         "/uploads/" + filename,
		Description: description,
		MimeType:    input.MimeType,
		UploadedAt:  time.Now(),
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}

	// 4. 异步把描述向量化存入记忆库，失败只记日志，不影响主流程
	go func() {
		// 创建一个新的 context，因为外面的 ctx 会在请求结束时取消
		bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		vector, err := s.embedder.GetVector(bgCtx, description)
		if err != nil {
			slog.Error("描述向量化失败", "image_id", entity.ID, "error", err)
			return
		}
		if err := s.memoryRepo.SaveMemory(bgCtx, input.UserID, entity.ID, description, vector); err != nil {
			slog.Error("写入记忆库失败", "image_id", entity.ID, "error", err)
		}
	}()

	return entity, nil
}

// ListImages 返回用户的上传历史，最新的在前
func (s *ImageService) ListImages(ctx context.Context, userID string, limit int) ([]model.ImageEntity, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

// SearchImages 按语义检索用户自己的图片描述
// 检索链路：查询词 → 向量 → Qdrant 相似检索 → 回 MySQL 取完整记录
func (s *ImageService) SearchImages(ctx context.Context, userID, query string, limit int) ([]model.ImageEntity, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = 10
	}

	queryVector, err := s.embedder.GetVector(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query failed: %w", err)
	}

	hits, err := s.memoryRepo.SearchSimilar(ctx, userID, limit, queryVector)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ImageID)
	}

	// GetByIDs 带 user_id 条件，哪怕记忆库里混进了别人的点也查不出来
	images, err := s.repo.GetByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	// 按相似度顺序重排 (SQL IN 不保证顺序)
	byID := make(map[uint]model.ImageEntity, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}
	ordered := make([]model.ImageEntity, 0, len(images))
	for _, h := range hits {
		if img, ok := byID[h.ImageID]; ok {
			ordered = append(ordered, img)
		}
	}
	return ordered, nil
}

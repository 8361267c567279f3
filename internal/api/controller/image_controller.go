package controller

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/leon37/PicDiary/internal/api/middleware"
	"github.com/leon37/PicDiary/internal/api/response"
	"github.com/leon37/PicDiary/internal/model"
	"github.com/leon37/PicDiary/internal/service"
)

// 单个图片最大 10MB，超过直接拒绝，不往磁盘写
const maxImageSize = 10 << 20

type ImageController struct {
	service *service.ImageService // 依赖 Service
}

// NewImageController 构造函数
func NewImageController(s *service.ImageService) *ImageController {
	return &ImageController{service: s}
}

type AnalyzeResponse struct {
	Success     bool   `json:"success"`
	Description string `json:"description"`
	ImageID     uint   `json:"imageId"`
	ImageURL    string `json:"imageUrl"`
}

type ImagesResponse struct {
	Images []model.ImageEntity `json:"images"`
}

// Analyze 上传并分析图片
// @Summary 上传图片并生成 AI 描述
// @Description 接收 multipart 的 image 字段，落盘后交给视觉模型，成功才保留文件和记录
// @Tags Image
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "图片文件"
// @Success 200 {object} AnalyzeResponse
// @Failure 400 {object} response.ErrorBody "没有文件或不是图片"
// @Failure 500 {object} response.ErrorBody "分析失败"
// @Router /analyze [post]
func (ctrl *ImageController) Analyze(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)
	slog.Info("收到图片分析请求", "uid", userID)

	// 1. 取 multipart 里的 image 字段
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "No image provided")
		return
	}
	if fileHeader.Size > maxImageSize {
		response.Error(c, http.StatusBadRequest, "Image too large")
		return
	}

	// 2. 声明的 Content-Type 必须是 image/*，不是图片就不调外部服务
	mimeType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		response.Error(c, http.StatusBadRequest, "No image provided")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "No image provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("读取上传文件失败", "error", err)
		response.Error(c, http.StatusInternalServerError, "Error during analysis: "+err.Error())
		return
	}

	// 3. 调用 Service 业务逻辑
	entity, err := ctrl.service.AnalyzeAndSave(c.Request.Context(), service.UploadInput{
		UserID:       userID,
		OriginalName: fileHeader.Filename,
		MimeType:     mimeType,
		Data:         data,
	})
	if err != nil {
		slog.Error("图片分析失败", "uid", userID, "error", err)
		if errors.Is(err, service.ErrAnalysis) {
			response.Error(c, http.StatusInternalServerError, "Error during analysis: "+err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	// 4. 成功响应
	slog.Info("图片分析完成", "uid", userID, "image_id", entity.ID)
	c.JSON(http.StatusOK, AnalyzeResponse{
		Success:     true,
		Description: entity.Description,
		ImageID:     entity.ID,
		ImageURL:    entity.URL,
	})
}

// MyImages 获取上传历史
// @Summary 获取当前用户的图片历史
// @Description 最新的在前，最多 50 条
// @Tags Image
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ImagesResponse
// @Router /my-images [get]
func (ctrl *ImageController) MyImages(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	images, err := ctrl.service.ListImages(c.Request.Context(), userID, service.DefaultHistoryLimit)
	if err != nil {
		slog.Error("获取图片历史失败", "uid", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	// 保证空结果也是 [] 而不是 null
	if images == nil {
		images = []model.ImageEntity{}
	}
	c.JSON(http.StatusOK, ImagesResponse{Images: images})
}

type SearchRequest struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit,default=10"`
}

// Search 语义搜索自己的图片
// @Summary 按描述语义搜索当前用户的图片
// @Description 查询词向量化后在记忆库里找相似描述，按相似度排序返回
// @Tags Image
// @Produce json
// @Security BearerAuth
// @Param q query string true "搜索词"
// @Param limit query int false "返回条数，默认 10"
// @Success 200 {object} ImagesResponse
// @Router /my-images/search [get]
func (ctrl *ImageController) Search(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserID)

	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Missing query parameter 'q'")
		return
	}

	images, err := ctrl.service.SearchImages(c.Request.Context(), userID, req.Query, req.Limit)
	if err != nil {
		slog.Error("语义搜索失败", "uid", userID, "q", req.Query, "error", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	if images == nil {
		images = []model.ImageEntity{}
	}
	c.JSON(http.StatusOK, ImagesResponse{Images: images})
}

package api

import (
	"github.com/gin-gonic/gin"
	"github.com/leon37/PicDiary/internal/api/controller"
	"github.com/leon37/PicDiary/internal/api/middleware"
)

// RegisterRoutes 注册所有路由
// 路由不带版本前缀，和现有前端保持一致
func RegisterRoutes(r *gin.Engine, jwtSecret, uploadDir string, authCtrl *controller.AuthController, imageCtrl *controller.ImageController) {
	r.Use(middleware.Cors())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 上传目录直接静态暴露，前端用记录里的 url 字段取图
	r.Static("/uploads", uploadDir)

	r.POST("/register", authCtrl.Register)
	r.POST("/login", authCtrl.Login)

	protected := r.Group("/")
	protected.Use(middleware.JWTAuth(jwtSecret))
	{
		protected.POST("/analyze", imageCtrl.Analyze)
		protected.GET("/my-images", imageCtrl.MyImages)
		protected.GET("/my-images/search", imageCtrl.Search)
	}
}

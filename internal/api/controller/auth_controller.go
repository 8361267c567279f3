package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leon37/PicDiary/internal/api/response"
	"github.com/leon37/PicDiary/internal/model"
	"github.com/leon37/PicDiary/internal/service"
)

// AuthController 处理用户认证
type AuthController struct {
	authService *service.AuthService
}

// NewAuthController 构造函数
func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

// ==========================================
// DTOs (请求/响应参数定义)
// ==========================================

type RegisterRequest struct {
	Firstname string `json:"firstname" binding:"required,max=100"`
	Lastname  string `json:"lastname" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.PublicUser `json:"user"`
}

// ==========================================
// Handlers
// ==========================================

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户，密码 bcrypt 加密存储
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册参数"
// @Success 200 {object} map[string]string "message"
// @Failure 400 {object} response.ErrorBody "邮箱已注册"
// @Router /register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest

	// 1. 参数校验
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("Register params invalid", "err", err)
		response.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	// 2. 业务逻辑
	err := ctrl.authService.Register(c.Request.Context(), req.Firstname, req.Lastname, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			slog.Warn("Register rejected, email taken", "email", req.Email)
			response.Error(c, http.StatusBadRequest, "User already exists")
			return
		}
		slog.Error("Register failed", "email", req.Email, "err", err)
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	// 3. 成功响应
	slog.Info("User registered", "email", req.Email)
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验账号密码，颁发 JWT Token (24h)
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录参数"
// @Success 200 {object} LoginResponse "包含 Token 和用户公开信息"
// @Failure 404 {object} response.ErrorBody "用户不存在"
// @Failure 400 {object} response.ErrorBody "密码错误"
// @Router /login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest

	// 1. 参数校验
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	// 2. 业务逻辑
	// 前端约定：用户不存在和密码错误要区分状态码 (404 / 400)
	token, user, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			slog.Warn("Login failed, user not found", "email", req.Email)
			response.Error(c, http.StatusNotFound, "User not found")
		case errors.Is(err, service.ErrWrongPassword):
			slog.Warn("Login failed, wrong password", "email", req.Email)
			response.Error(c, http.StatusBadRequest, "Incorrect password")
		default:
			slog.Error("Login failed", "email", req.Email, "err", err)
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	// 3. 成功响应
	slog.Info("User logged in", "userID", user.ID)
	c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    user.Public(),
	})
}

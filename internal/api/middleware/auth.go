package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/leon37/PicDiary/internal/api/response"
)

// Context key，下游 handler 用 c.GetString 取
const (
	CtxUserID = "userID"
	CtxEmail  = "userEmail"
)

// JWTAuth 校验 Bearer Token
// 没带 Token 返回 401，Token 无效或过期返回 403 (沿用前端已有的约定)
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortError(c, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		// 格式通常是 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.AbortError(c, http.StatusUnauthorized, "Access denied. No token provided.")
			return
		}

		// 解析 Token
		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			response.AbortError(c, http.StatusForbidden, "Invalid or expired token.")
			return
		}

		// 提取 Claims 并注入 Context
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.AbortError(c, http.StatusForbidden, "Invalid or expired token.")
			return
		}
		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			response.AbortError(c, http.StatusForbidden, "Invalid or expired token.")
			return
		}
		c.Set(CtxUserID, userID)
		if email, ok := claims["email"].(string); ok {
			c.Set(CtxEmail, email)
		}

		c.Next()
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leon37/PicDiary/internal/model"
	"github.com/leon37/PicDiary/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists    = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("incorrect password")
)

type AuthService struct {
	userRepo    repository.UserRepo
	jwtSecret   []byte
	expireHours int
}

// NewAuthService 构造函数 (依赖注入，密钥从配置传入而不是全局读取)
func NewAuthService(userRepo repository.UserRepo, jwtSecret string, expireHours int) *AuthService {
	if expireHours <= 0 {
		expireHours = 24
	}
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   []byte(jwtSecret),
		expireHours: expireHours,
	}
}

// Register 注册逻辑
func (s *AuthService) Register(ctx context.Context, firstname, lastname, email, password string) error {
	// 1. 先查重，给前端一个明确的提示
	// 并发下两个同邮箱注册可能同时通过这步，users.email 的 unique index 会兜底
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserExists
	}

	// 2. 密码加密
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// 3. 落库
	id, _ := uuid.NewV7()
	user := &model.User{
		ID:        id.String(),
		Firstname: firstname,
		Lastname:  lastname,
		Email:     email,
		Password:  string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// unique index 撞上了也当作重复用户
		if strings.Contains(err.Error(), "Duplicate entry") {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// Login 登录逻辑，返回 Token 和用户公开信息
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	// 1. 查用户
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrUserNotFound
	}

	// 2. 比对密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrWrongPassword
	}

	// 3. 生成 JWT
	token, err := s.generateToken(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) generateToken(userID, email string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(time.Hour * time.Duration(s.expireHours)).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

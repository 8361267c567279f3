package repository

import (
	"context"

	"github.com/leon37/PicDiary/internal/model"
	"gorm.io/gorm"
)

// ImageRepo 定义接口 (为了以后方便 Mock)
// 注意：图片记录只增不改不删，所以接口里没有 Update/Delete
type ImageRepo interface {
	Create(ctx context.Context, image *model.ImageEntity) error
	// ListByUser 按上传时间倒序返回某个用户的记录
	ListByUser(ctx context.Context, userID string, limit int) ([]model.ImageEntity, error)
	// GetByIDs 只返回属于该用户的记录，防止越权读取
	GetByIDs(ctx context.Context, userID string, ids []uint) ([]model.ImageEntity, error)
}

type imageRepo struct {
	db *gorm.DB
}

// NewImageRepo 构造函数
func NewImageRepo(db *gorm.DB) ImageRepo {
	return &imageRepo{db: db}
}

// Create 插入一条记录
func (r *imageRepo) Create(ctx context.Context, image *model.ImageEntity) error {
	// WithContext 确保请求超时能传递到数据库层
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.ImageEntity, error) {
	var images []model.ImageEntity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepo) GetByIDs(ctx context.Context, userID string, ids []uint) ([]model.ImageEntity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var images []model.ImageEntity
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

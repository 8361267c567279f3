package model

import "time"

// ImageEntity 是映射数据库表的结构体
// JSON 字段名沿用前端已有的约定 (_id / mimeType / uploadedAt)
type ImageEntity struct {
	ID        uint   `gorm:"primaryKey" json:"_id"`
	UserID    string `gorm:"type:varchar(36);not null;index" json:"-"`
	Filename  string `gorm:"type:varchar(255);not null" json:"filename"`
	URL       string `gorm:"type:varchar(512);not null" json:"url"`
	// AI 生成的描述，必填
	Description string    `gorm:"type:text;not null" json:"description"`
	MimeType    string    `gorm:"type:varchar(100);not null" json:"mimeType"`
	UploadedAt  time.Time `gorm:"autoCreateTime;index" json:"uploadedAt"`
}

// TableName 强制指定表名
func (ImageEntity) TableName() string {
	return "images"
}

// VisionPrompt 是发给视觉模型的固定提示词
// 放在这里是为了让 Prompt 和实体紧挨着，修改时能对照
const VisionPrompt = "Say hello first and describe this image in 3 lines, including the background."

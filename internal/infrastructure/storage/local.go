package storage

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store 定义文件落盘的能力 (为了以后方便 Mock)
type Store interface {
	// Save 写入文件，返回生成的文件名
	Save(originalName string, data []byte) (string, error)
	// Remove 删除文件，文件不存在时不算错误
	Remove(filename string) error
}

// LocalStore 把上传的图片放在一个平铺目录里
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

// Save 生成 "<毫秒时间戳>-<随机数>-<原始文件名>" 的文件名防止撞名
func (s *LocalStore) Save(originalName string, data []byte) (string, error) {
	filename := fmt.Sprintf("%d-%09d-%s",
		time.Now().UnixMilli(),
		rand.Intn(1_000_000_000),
		sanitizeName(originalName),
	)

	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	return filename, nil
}

func (s *LocalStore) Remove(filename string) error {
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// sanitizeName 只保留纯文件名，去掉路径分隔符，防止穿越到目录外
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}

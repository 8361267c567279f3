package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Qdrant   QdrantConfig   `mapstructure:"qdrant"`
	Gemini   ModelConfig    `mapstructure:"gemini"`
	OpenAI   ModelConfig    `mapstructure:"openai"`
}

type ServerConfig struct {
	Port      string `mapstructure:"port"`
	UploadDir string `mapstructure:"upload_dir"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type QdrantConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type ModelConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// LoadConfig 读取配置文件
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config") // 配置文件名 (不带扩展名)
	viper.SetConfigType("yaml")   // 文件类型
	viper.AddConfigPath(".")      // 查找路径：根目录

	// 这一步是为了支持环境变量覆盖 (例如在 Docker 中)
	// 比如设置环境变量 PICDIARY_GEMINI_API_KEY 可以覆盖 yaml 里的值
	viper.SetEnvPrefix("PICDIARY")
	viper.AutomaticEnv()

	viper.SetDefault("server.port", ":3000")
	viper.SetDefault("server.upload_dir", "uploads")
	viper.SetDefault("jwt.expire_hours", 24)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 密钥不允许有任何兜底默认值，缺了就直接拒绝启动
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret 未配置")
	}
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("gemini.api_key 未配置")
	}

	return &cfg, nil
}

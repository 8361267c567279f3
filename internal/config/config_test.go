package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	viper.Reset() // viper 是全局状态，每个用例前清干净

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	chdir(t, dir)
}

// chdir 切换工作目录并在用例结束时恢复 (Go 1.24 的 t.Chdir 等价实现)
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	writeConfig(t, `
database:
  dsn: "root:pw@tcp(127.0.0.1:3306)/picdiary"
jwt:
  secret: "s3cret"
gemini:
  api_key: "gm-key"
`)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Server.Port != ":3000" {
		t.Errorf("default port = %q, want :3000", cfg.Server.Port)
	}
	if cfg.Server.UploadDir != "uploads" {
		t.Errorf("default upload_dir = %q, want uploads", cfg.Server.UploadDir)
	}
	if cfg.JWT.ExpireHours != 24 {
		t.Errorf("default expire_hours = %d, want 24", cfg.JWT.ExpireHours)
	}
	if cfg.JWT.Secret != "s3cret" {
		t.Errorf("jwt secret = %q", cfg.JWT.Secret)
	}
}

func TestLoadConfig_MissingJWTSecret(t *testing.T) {
	writeConfig(t, `
gemini:
  api_key: "gm-key"
`)

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when jwt.secret is missing")
	}
}

func TestLoadConfig_MissingGeminiKey(t *testing.T) {
	writeConfig(t, `
jwt:
  secret: "s3cret"
`)

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when gemini.api_key is missing")
	}
}

func TestLoadConfig_NoConfigFile(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when config.yaml is absent")
	}
}

package config

import (
	"os"
	"testing"
)

// 测试内容：验证初始化配置会设置默认值并写入可用的配置目录。
func TestInitConfig_SetsDefaults(t *testing.T) {
	dir := t.TempDir()

	// 确保不在 release 模式（release 模式下不安全的 secret 会导致 fatal）。
	t.Setenv("CHIRP_SERVER_MODE", "debug")
	t.Setenv("CHIRP_JWT_SECRET", "")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port == "" {
		t.Fatalf("期望 default server.port to be set")
	}
	if cfg.JWT.Secret == "" {
		t.Fatalf("期望 JWT secret to be set in non-release mode")
	}
	if cfg.Pagination.PostsPerPage <= 0 {
		t.Fatalf("期望 posts_per_page 有默认值，实际为 %d", cfg.Pagination.PostsPerPage)
	}
	if cfg.JWT.ActionTokenMinutes <= 0 {
		t.Fatalf("期望 action_token_minutes 有默认值，实际为 %d", cfg.JWT.ActionTokenMinutes)
	}
	if GetConfigDir() != dir {
		t.Fatalf("期望 config dir %q，实际为 %q", dir, GetConfigDir())
	}

	// 写入一个配置文件名以确保目录可写（测试的基本健全性检查）。
	if err := os.WriteFile(dir+string(os.PathSeparator)+"_test_write", []byte("ok"), 0644); err != nil {
		t.Fatalf("期望 temp config dir to be writable: %v", err)
	}
}

// 测试内容：环境变量覆盖配置文件与默认值。
func TestInitConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("CHIRP_SERVER_MODE", "debug")
	t.Setenv("CHIRP_SERVER_PORT", "9090")
	t.Setenv("CHIRP_APP_BASE_URL", "https://chirp.example.com")

	InitConfig(dir)

	cfg := Get()
	if cfg.Server.Port != "9090" {
		t.Fatalf("期望端口 9090，实际为 %q", cfg.Server.Port)
	}
	if cfg.App.BaseURL != "https://chirp.example.com" {
		t.Fatalf("期望 base_url 被环境变量覆盖，实际为 %q", cfg.App.BaseURL)
	}
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Nyukimin/kibalone_studio/internal/domain/execution"
)

// ConfigPathEnv は設定ファイルのパスを指定する環境変数
const ConfigPathEnv = "KIBALONE_CONFIG"

// Config はアプリケーション全体の設定
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Executor ExecutorConfig `yaml:"executor"`
	Services ServicesConfig `yaml:"services"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port int    `yaml:"port" env:"KIBALONE_PORT"`
	Host string `yaml:"host" env:"KIBALONE_HOST"`
}

// Addr はlisten用のアドレスを返す
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ExecutorConfig は計画実行の設定
type ExecutorConfig struct {
	BaseURL string `yaml:"base_url" env:"KIBALONE_EXECUTOR_BASE_URL"` // 相対エンドポイントの解決先
	Mode    string `yaml:"mode" env:"KIBALONE_EXECUTION_MODE"`
}

// ServicesConfig は外部生成サービスのURL
type ServicesConfig struct {
	Blender string `yaml:"blender" env:"KIBALONE_BLENDER_URL"`
	ThreeJS string `yaml:"threejs" env:"KIBALONE_THREEJS_URL"`
	MiDaS   string `yaml:"midas" env:"KIBALONE_MIDAS_URL"`
	TripoSR string `yaml:"triposr" env:"KIBALONE_TRIPOSR_URL"`
}

// LogConfig はログ設定
type LogConfig struct {
	Level  string `yaml:"level" env:"KIBALONE_LOG_LEVEL"`
	Format string `yaml:"format" env:"KIBALONE_LOG_FORMAT"`
}

// LoadConfig は設定ファイルを読み込む（空パスは既定値と環境変数のみ）
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		// ファイル読み込み
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// YAMLパース
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	// 環境変数で上書き
	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// デフォルト値設定
	cfg.setDefaults()

	// バリデーション
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// ResolvePath はフラグ値を優先し、なければ環境変数から設定ファイルのパスを返す
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(ConfigPathEnv)
}

// setDefaults はデフォルト値を設定
func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}

	if c.Server.Port == 0 {
		c.Server.Port = 11000
	}

	if c.Executor.BaseURL == "" {
		c.Executor.BaseURL = "http://localhost:11000"
	}

	if c.Executor.Mode == "" {
		c.Executor.Mode = string(execution.ModeBestEffort)
	}

	if c.Services.Blender == "" {
		c.Services.Blender = "http://localhost:11004"
	}

	if c.Services.ThreeJS == "" {
		c.Services.ThreeJS = "http://localhost:11005"
	}

	if c.Services.MiDaS == "" {
		c.Services.MiDaS = "http://localhost:11002"
	}

	if c.Services.TripoSR == "" {
		c.Services.TripoSR = "http://localhost:11001"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// loadFromEnv は環境変数から設定を読み込み（未設定の項目はそのまま）
func (c *Config) loadFromEnv() error {
	return env.Parse(c)
}

// Validate は設定の妥当性を検証
func (c *Config) Validate() error {
	// サーバー設定検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}

	// 実行設定検証
	if err := validateURL("executor base_url", c.Executor.BaseURL); err != nil {
		return err
	}

	if _, err := execution.ParseMode(c.Executor.Mode); err != nil {
		return fmt.Errorf("invalid executor mode: %w", err)
	}

	// 外部サービス検証
	services := []struct {
		name string
		url  string
	}{
		{"services blender", c.Services.Blender},
		{"services threejs", c.Services.ThreeJS},
		{"services midas", c.Services.MiDaS},
		{"services triposr", c.Services.TripoSR},
	}
	for _, s := range services {
		if err := validateURL(s.name, s.url); err != nil {
			return err
		}
	}

	// ログ設定検証
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}

	return nil
}

// ExecutionMode は検証済みの実行方針を返す
func (c *Config) ExecutionMode() execution.Mode {
	mode, err := execution.ParseMode(c.Executor.Mode)
	if err != nil {
		return execution.ModeBestEffort
	}
	return mode
}

func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: %w", name, errNotHTTP)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host", name)
	}
	return nil
}

var errNotHTTP = errors.New("scheme must be http or https")

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"jo3qma.com/product_catalog/internal/domain/model"
	"jo3qma.com/product_catalog/internal/infrastructure/dummyjson"
)

// FileEnv は設定ファイルのパスを指定する環境変数です
const FileEnv = "CATALOG_CONFIG_FILE"

// Config はサーバーとCLIで共通の設定です
type Config struct {
	APIBaseURL  string        `yaml:"api_base_url" env:"CATALOG_API_BASE_URL"`
	PageSize    int64         `yaml:"page_size" env:"CATALOG_PAGE_SIZE"`
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"CATALOG_HTTP_TIMEOUT"`
	Port        string        `yaml:"port" env:"PORT"`
	LogLevel    string        `yaml:"log_level" env:"CATALOG_LOG_LEVEL"`
	SessionTTL  time.Duration `yaml:"session_ttl" env:"CATALOG_SESSION_TTL"`
}

// Default は既定値を持つ設定を返します
func Default() Config {
	return Config{
		APIBaseURL:  dummyjson.DefaultBaseURL,
		PageSize:    model.DefaultPageSize,
		HTTPTimeout: 30 * time.Second,
		Port:        "8080",
		LogLevel:    "info",
		SessionTTL:  30 * time.Minute,
	}
}

// Load は Read で設定を読み込み、検証した結果を返します
func Load() (Config, error) {
	cfg, err := Read()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read は既定値、設定ファイル、.env、環境変数の順に設定を読み込みます
// 後から読み込んだ値が優先されます。値の検証は行わないので、
// 呼び出し側で上書きした後に Validate を呼びます
func Read() (Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	// .env は任意。存在しなければ環境変数だけを使う
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate は設定値を検証します
func (c Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", c.APIBaseURL)
	}
	return nil
}

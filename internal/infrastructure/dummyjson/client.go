package dummyjson

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "jo3qma.com/product_catalog/internal/infrastructure/dummyjson"

// DefaultBaseURL は外部カタログAPIの既定のベースURLです
const DefaultBaseURL = "https://dummyjson.com"

// Client は外部カタログAPI（DummyJSON互換のREST API）から商品とカテゴリを取得する実装です
// 腐敗防止層（Anti-Corruption Layer）として、外部APIのレスポンス形式を
// ドメインモデルに変換する責務を持ちます
// repository.CategoryRepository と repository.ProductRepository の両方を満たします
type Client struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	logger  *zap.Logger
}

// Option は Client の生成オプションです
type Option func(*Client)

// WithHTTPClient は利用する http.Client を差し替えます
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout は既定の http.Client のタイムアウトを設定します
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client = &http.Client{Timeout: d}
	}
}

// WithTracerProvider はスパンを記録する TracerProvider を指定します
// 指定しない場合はグローバルの TracerProvider を使います
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(instrumentationName)
	}
}

// WithLogger はレスポンスのクローズ失敗などを出力するロガーを指定します
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient は新しいClientを作成します
// baseURL が空の場合は DefaultBaseURL を使います
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		tracer:  otel.GetTracerProvider().Tracer(instrumentationName),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

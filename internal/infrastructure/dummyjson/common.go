package dummyjson

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// StatusError は外部APIが200以外のステータスを返したことを表します
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// fetchJSON は指定されたURLからJSONを取得して out にデコードします
// 共通のヘッダー設定やエラーハンドリング、トレースの記録を行います
func (c *Client) fetchJSON(ctx context.Context, spanName, url string, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", url)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close response body", zap.String("url", url), zap.Error(closeErr))
		}
	}()

	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))
	if res.StatusCode != http.StatusOK {
		return &StatusError{Code: res.StatusCode, URL: url}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

// PlainText はHTML断片を含み得る文字列からタグを除去し、空白を1つにまとめた表示用の文字列を返します
// ドメインモデルの値は書き換えず、表示の直前にだけ使います
// パースできない場合は元の文字列の空白だけを整えて返します
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

package dummyjson

import (
	"context"
	"fmt"
	"net/url"

	"jo3qma.com/product_catalog/internal/domain/model"
)

// productsResponse は商品一覧系エンドポイント共通のレスポンスです
type productsResponse struct {
	Products []productResponse `json:"products"`
	Total    int64             `json:"total"`
}

type productResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
}

// FetchProducts は条件に一致する商品を1ページ分取得します
// 商品のフィールドは受け取ったまま保持し、加工しません
func (c *Client) FetchProducts(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error) {
	var res productsResponse
	if err := c.fetchJSON(ctx, "dummyjson.FetchProducts", c.productsURL(q), &res); err != nil {
		return nil, err
	}

	page := &model.ProductPage{
		Products: make([]model.Product, 0, len(res.Products)),
		Total:    res.Total,
	}
	for _, p := range res.Products {
		page.Products = append(page.Products, model.Product{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Price:       p.Price,
			Category:    p.Category,
			Images:      p.Images,
		})
	}
	return page, nil
}

// productsURL は条件からリクエストURLを組み立てます
// 優先順位: カテゴリ > 検索語 > 絞り込みなし
func (c *Client) productsURL(q model.ProductQuery) string {
	paging := fmt.Sprintf("limit=%d&skip=%d", q.Limit, q.Skip)
	switch {
	case q.Category != "":
		return fmt.Sprintf("%s/products/category/%s?%s", c.baseURL, url.PathEscape(q.Category), paging)
	case q.Search != "":
		return fmt.Sprintf("%s/products/search?q=%s&%s", c.baseURL, url.QueryEscape(q.Search), paging)
	default:
		return fmt.Sprintf("%s/products?%s", c.baseURL, paging)
	}
}

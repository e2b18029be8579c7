package dummyjson

import (
	"context"

	"jo3qma.com/product_catalog/internal/domain/model"
)

// categoryResponse は GET /products/categories の要素です
type categoryResponse struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FetchCategories はカテゴリ一覧を取得します
// ID はレスポンス順に0から採番します
func (c *Client) FetchCategories(ctx context.Context) ([]model.Category, error) {
	var res []categoryResponse
	if err := c.fetchJSON(ctx, "dummyjson.FetchCategories", c.baseURL+"/products/categories", &res); err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0, len(res))
	for i, cat := range res {
		categories = append(categories, model.Category{
			ID:   int64(i),
			Name: cat.Name,
			Slug: cat.Slug,
			URL:  cat.URL,
		})
	}
	return categories, nil
}

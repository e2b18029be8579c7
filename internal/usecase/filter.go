package usecase

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"jo3qma.com/product_catalog/internal/domain/model"
)

// FilterProducts はカテゴリの完全一致と、タイトルへの検索語の部分一致で商品を絞り込みます
// どちらも大文字小文字を区別しません。category が空の場合はカテゴリで絞り込みません
func FilterProducts(products []model.Product, category, search string) []model.Product {
	lower := cases.Lower(language.Und)
	wantCategory := lower.String(category)
	wantSearch := lower.String(search)

	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if category != "" && lower.String(p.Category) != wantCategory {
			continue
		}
		if !strings.Contains(lower.String(p.Title), wantSearch) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

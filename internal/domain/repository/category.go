package repository

import (
	"context"

	"jo3qma.com/product_catalog/internal/domain/model"
)

// CategoryRepository はカテゴリ一覧の取得方法を抽象化します。
type CategoryRepository interface {
	// FetchCategories はカテゴリ一覧をレスポンス順に取得します
	// ID はレスポンス順の0始まりの連番で採番されます
	FetchCategories(ctx context.Context) ([]model.Category, error)
}

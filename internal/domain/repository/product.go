package repository

import (
	"context"

	"jo3qma.com/product_catalog/internal/domain/model"
)

// ProductRepository は商品一覧の取得方法を抽象化します。
// 実装が外部APIなのか、テスト用のフェイクなのかはドメイン層は知りません。
// これにより、腐敗防止層（Anti-Corruption Layer）のパターンを実現します。
type ProductRepository interface {
	// FetchProducts は条件に一致する商品を1ページ分取得します
	FetchProducts(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error)
}

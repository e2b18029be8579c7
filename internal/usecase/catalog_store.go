package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"jo3qma.com/product_catalog/internal/domain/model"
	"jo3qma.com/product_catalog/internal/domain/repository"
)

const (
	// ErrLoadingProducts は商品取得に失敗したときに LastError へ設定する文言です
	ErrLoadingProducts = "Error loading products"
	// ErrUnknown はエラーがメッセージを持たないときに LastError へ設定する文言です
	ErrUnknown = "unknown error"
)

// CatalogStore はカタログ画面の絞り込み・ページング状態を保持し、
// 外部APIへの問い合わせを調停するストアです
// セッションごとに1つ生成して使います
//
// 同時に実行される商品取得は1つだけで、Loading 中の取得要求は
// キューイングされずに無視されます。
// フィルタ変更のたびに世代番号を進め、古い世代のレスポンスは破棄します。
type CatalogStore struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	logger     *zap.Logger

	mu         sync.Mutex
	state      model.QueryState
	generation uint64
}

// StoreOption は CatalogStore の生成オプションです
type StoreOption func(*CatalogStore)

// WithPageSize は1ページあたりの取得件数を指定します。0以下は無視されます
func WithPageSize(n int64) StoreOption {
	return func(s *CatalogStore) {
		if n > 0 {
			s.state.PageSize = n
		}
	}
}

// WithLogger はストアのロガーを指定します
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *CatalogStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewCatalogStore は新しいCatalogStoreインスタンスを作成します
func NewCatalogStore(categories repository.CategoryRepository, products repository.ProductRepository, opts ...StoreOption) *CatalogStore {
	s := &CatalogStore{
		categories: categories,
		products:   products,
		logger:     zap.NewNop(),
		state: model.QueryState{
			Page:     1,
			PageSize: model.DefaultPageSize,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State は現在の状態のコピーを返します
func (s *CatalogStore) State() model.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Products = append(make([]model.Product, 0, len(s.state.Products)), s.state.Products...)
	st.Categories = append(make([]model.Category, 0, len(s.state.Categories)), s.state.Categories...)
	return st
}

// FilteredProducts は読み込み済みの商品にローカルのカテゴリ・検索語フィルタを適用した結果を返します
// 呼び出しのたびに再計算します
func (s *CatalogStore) FilteredProducts() []model.Product {
	s.mu.Lock()
	products := s.state.Products
	category := s.state.SelectedCategory
	search := s.state.SearchQuery
	s.mu.Unlock()

	return FilterProducts(products, category, search)
}

// FetchCategories はカテゴリ一覧を取得して置き換えます
// 失敗した場合は既存のカテゴリを残したまま LastError を設定します
func (s *CatalogStore) FetchCategories(ctx context.Context) {
	_ = s.fetchCategories(ctx)
}

func (s *CatalogStore) fetchCategories(ctx context.Context) error {
	categories, err := s.categories.FetchCategories(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to fetch categories", zap.Error(err))
		s.state.LastError = errorMessage(err)
		return err
	}
	s.state.Categories = categories
	return nil
}

// FetchProducts は現在の条件で商品を1ページ分取得し、読み込み済みの一覧に追加します
// 取得中に呼ばれた場合は何もしません。reset の場合は1ページ目から取り直します
func (s *CatalogStore) FetchProducts(ctx context.Context, reset bool) {
	s.mu.Lock()
	q, gen, ok := s.beginFetchLocked(reset)
	s.mu.Unlock()
	if !ok {
		return
	}
	_ = s.runFetch(ctx, q, gen)
}

// SetSearchQuery は検索語を設定し、1ページ目から取り直します
// 選択中のカテゴリは解除しません
func (s *CatalogStore) SetSearchQuery(ctx context.Context, query string) {
	s.mu.Lock()
	s.state.SearchQuery = query
	s.resetFilterLocked()
	q, gen, ok := s.beginFetchLocked(true)
	s.mu.Unlock()
	if !ok {
		s.logger.Debug("fetch in flight, search change not fetched", zap.String("query", query))
		return
	}
	_ = s.runFetch(ctx, q, gen)
}

// SetCategory はカテゴリを設定し、1ページ目から取り直します
// 空文字列はカテゴリ未選択を表します
func (s *CatalogStore) SetCategory(ctx context.Context, category string) {
	s.mu.Lock()
	s.state.SelectedCategory = category
	s.resetFilterLocked()
	q, gen, ok := s.beginFetchLocked(true)
	s.mu.Unlock()
	if !ok {
		s.logger.Debug("fetch in flight, category change not fetched", zap.String("category", category))
		return
	}
	_ = s.runFetch(ctx, q, gen)
}

// LoadMoreProducts は次のページを取得して追加します
// 取得中、またはすべて読み込み済みの場合は何もしません
func (s *CatalogStore) LoadMoreProducts(ctx context.Context) {
	s.mu.Lock()
	if s.state.Loading || int64(len(s.state.Products)) >= s.state.Total {
		s.mu.Unlock()
		return
	}
	s.state.Page++
	q, gen, _ := s.beginFetchLocked(false)
	s.mu.Unlock()

	_ = s.runFetch(ctx, q, gen)
}

// Refresh はカテゴリ一覧と商品の1ページ目を並行して取得します
// 状態への反映は個別の操作と同じで、最初に発生したエラーを返します
func (s *CatalogStore) Refresh(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		return s.fetchCategories(ctx)
	})
	g.Go(func() error {
		s.mu.Lock()
		q, gen, ok := s.beginFetchLocked(true)
		s.mu.Unlock()
		if !ok {
			return nil
		}
		return s.runFetch(ctx, q, gen)
	})
	return g.Wait()
}

// resetFilterLocked はフィルタ変更に伴ってページングをリセットし、世代を進めます
func (s *CatalogStore) resetFilterLocked() {
	s.state.Page = 1
	s.state.Products = nil
	s.generation++
}

// beginFetchLocked は取得を開始できるか判定し、リクエスト条件を確定します
// s.mu を保持した状態で呼び出します
func (s *CatalogStore) beginFetchLocked(reset bool) (model.ProductQuery, uint64, bool) {
	if s.state.Loading {
		return model.ProductQuery{}, 0, false
	}
	s.state.Loading = true

	if reset {
		s.state.Page = 1
		s.state.Products = nil
	}

	q := model.ProductQuery{
		Category: s.state.SelectedCategory,
		Search:   s.state.SearchQuery,
		Limit:    s.state.PageSize,
		Skip:     (s.state.Page - 1) * s.state.PageSize,
	}
	return q, s.generation, true
}

// runFetch はリクエストを実行して結果を状態に反映します
// Loading は成功・失敗にかかわらず必ず false に戻します
func (s *CatalogStore) runFetch(ctx context.Context, q model.ProductQuery, gen uint64) error {
	defer func() {
		s.mu.Lock()
		s.state.Loading = false
		s.mu.Unlock()
	}()

	page, err := s.products.FetchProducts(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("discarding stale product page",
			zap.String("category", q.Category),
			zap.String("search", q.Search),
			zap.Int64("skip", q.Skip),
		)
		return err
	}
	if err != nil {
		s.logger.Error("failed to fetch products",
			zap.String("category", q.Category),
			zap.String("search", q.Search),
			zap.Int64("skip", q.Skip),
			zap.Error(err),
		)
		s.state.LastError = ErrLoadingProducts
		return err
	}
	if page == nil {
		return nil
	}

	s.state.Products = append(s.state.Products, page.Products...)
	s.state.Total = page.Total
	return nil
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return ErrUnknown
}

package usecase

import (
	"context"
	"sync"

	"jo3qma.com/product_catalog/internal/domain/model"
)

type fakeCategoryRepo struct {
	categories []model.Category
	err        error
}

func (f fakeCategoryRepo) FetchCategories(ctx context.Context) ([]model.Category, error) {
	return f.categories, f.err
}

// fakeProductRepo は受け取った条件を記録し、fetch の結果を返します
type fakeProductRepo struct {
	mu      sync.Mutex
	queries []model.ProductQuery
	fetch   func(q model.ProductQuery) (*model.ProductPage, error)
}

func (f *fakeProductRepo) FetchProducts(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	fetch := f.fetch
	f.mu.Unlock()
	return fetch(q)
}

func (f *fakeProductRepo) Queries() []model.ProductQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ProductQuery(nil), f.queries...)
}

// pages は呼び出し順にページを返す fetch 関数を作ります
func pages(ps ...*model.ProductPage) func(model.ProductQuery) (*model.ProductPage, error) {
	var mu sync.Mutex
	i := 0
	return func(model.ProductQuery) (*model.ProductPage, error) {
		mu.Lock()
		defer mu.Unlock()
		p := ps[i%len(ps)]
		i++
		return p, nil
	}
}

// gate は release されるまで fetch をブロックします
type gate struct {
	started chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gate) wrap(next func(model.ProductQuery) (*model.ProductPage, error)) func(model.ProductQuery) (*model.ProductPage, error) {
	var once sync.Once
	return func(q model.ProductQuery) (*model.ProductPage, error) {
		first := false
		once.Do(func() { first = true })
		if first {
			g.started <- struct{}{}
			<-g.release
		}
		return next(q)
	}
}

type emptyError struct{}

func (emptyError) Error() string { return "" }

func product(id int64, title, category string) model.Product {
	return model.Product{ID: id, Title: title, Category: category}
}

// fakeCategoryRepoSeq は呼び出し順に結果を返します
type fakeCategoryRepoSeq struct {
	mu      sync.Mutex
	results []fakeCategoryRepo
	i       int
}

func (f *fakeCategoryRepoSeq) FetchCategories(ctx context.Context) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.results[f.i%len(f.results)]
	f.i++
	return r.categories, r.err
}

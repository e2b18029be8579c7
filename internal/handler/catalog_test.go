package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"jo3qma.com/product_catalog/internal/domain/model"
	"jo3qma.com/product_catalog/internal/usecase"
)

type fakeCategoryRepo struct {
	categories []model.Category
	err        error
}

func (f fakeCategoryRepo) FetchCategories(ctx context.Context) ([]model.Category, error) {
	return f.categories, f.err
}

// fakeProductRepo はカテゴリ "smartphones" と、それ以外の2種類の結果を返します
type fakeProductRepo struct{}

func (fakeProductRepo) FetchProducts(ctx context.Context, q model.ProductQuery) (*model.ProductPage, error) {
	if q.Category == "smartphones" {
		return &model.ProductPage{
			Products: []model.Product{
				{ID: 1, Title: "Apple iPhone", Category: "smartphones"},
				{ID: 2, Title: "Samsung Galaxy", Category: "smartphones"},
			},
			Total: 2,
		}, nil
	}
	return &model.ProductPage{
		Products: []model.Product{
			{ID: q.Skip + 1, Title: "Item", Category: "misc"},
		},
		Total: 3,
	}, nil
}

func newTestClient(t *testing.T) *CatalogServiceClient {
	t.Helper()

	logger := zaptest.NewLogger(t)
	cats := fakeCategoryRepo{categories: []model.Category{{ID: 0, Name: "Smartphones", Slug: "smartphones"}}}
	sessions := usecase.NewSessionRegistry(func() *usecase.CatalogStore {
		return usecase.NewCatalogStore(cats, fakeProductRepo{}, usecase.WithPageSize(1), usecase.WithLogger(logger))
	}, 0)

	mux := http.NewServeMux()
	path, h := NewCatalogServiceHandler(NewCatalogHandler(sessions, logger))
	mux.Handle(path, h)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewCatalogServiceClient(srv.Client(), srv.URL)
}

func TestCatalogService_sessionFlow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestClient(t)

	opened, err := c.OpenSession(ctx, &OpenSessionRequest{Load: true})
	require.NoError(t, err)
	require.NotEmpty(t, opened.SessionID)
	assert.Len(t, opened.State.State.Categories, 1)
	assert.Len(t, opened.State.State.Products, 1)
	assert.Equal(t, int64(3), opened.State.State.Total)
	assert.True(t, opened.State.HasMore)

	more, err := c.LoadMoreProducts(ctx, opened.SessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), more.State.Page)
	require.Len(t, more.State.Products, 2)
	assert.Equal(t, int64(2), more.State.Products[1].ID)

	cat, err := c.SetCategory(ctx, &SetCategoryRequest{SessionID: opened.SessionID, Category: "smartphones"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cat.State.Page)
	assert.Len(t, cat.State.Products, 2)

	search, err := c.SetSearchQuery(ctx, &SetSearchQueryRequest{SessionID: opened.SessionID, Query: "APPLE"})
	require.NoError(t, err)
	assert.Len(t, search.State.Products, 2)
	require.Len(t, search.FilteredProducts, 1)
	assert.Equal(t, "Apple iPhone", search.FilteredProducts[0].Title)

	closed, err := c.CloseSession(ctx, opened.SessionID)
	require.NoError(t, err)
	assert.True(t, closed.Closed)

	_, err = c.GetState(ctx, opened.SessionID)
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestCatalogService_FetchProductsAndRefresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newTestClient(t)

	opened, err := c.OpenSession(ctx, &OpenSessionRequest{})
	require.NoError(t, err)
	require.Empty(t, opened.State.State.Products, "no products are loaded without load")

	res, err := c.FetchProducts(ctx, &FetchProductsRequest{SessionID: opened.SessionID, Reset: true})
	require.NoError(t, err)
	assert.Len(t, res.State.Products, 1)

	res, err = c.FetchCategories(ctx, opened.SessionID)
	require.NoError(t, err)
	assert.Len(t, res.State.Categories, 1)

	res, err = c.Refresh(ctx, opened.SessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.State.Page)
	assert.Len(t, res.State.Products, 1)
}

func TestCatalogHandler_returnsInvalidArgumentWithoutSession(t *testing.T) {
	t.Parallel()

	sessions := usecase.NewSessionRegistry(func() *usecase.CatalogStore { return nil }, 0)
	h := NewCatalogHandler(sessions, nil)

	_, err := h.GetState(context.Background(), connect.NewRequest(&SessionRequest{}))
	var ce *connect.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, connect.CodeInvalidArgument, ce.Code())

	_, err = h.CloseSession(context.Background(), connect.NewRequest(&SessionRequest{}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestCatalogHandler_returnsNotFoundForUnknownSession(t *testing.T) {
	t.Parallel()

	sessions := usecase.NewSessionRegistry(func() *usecase.CatalogStore { return nil }, 0)
	h := NewCatalogHandler(sessions, nil)

	_, err := h.LoadMoreProducts(context.Background(), connect.NewRequest(&SessionRequest{SessionID: "missing"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestCatalogHandler_OpenSession_keepsErrorInState(t *testing.T) {
	t.Parallel()

	logger := zaptest.NewLogger(t)
	cats := fakeCategoryRepo{err: errors.New("categories down")}
	sessions := usecase.NewSessionRegistry(func() *usecase.CatalogStore {
		return usecase.NewCatalogStore(cats, fakeProductRepo{}, usecase.WithLogger(logger))
	}, 0)
	h := NewCatalogHandler(sessions, logger)

	res, err := h.OpenSession(context.Background(), connect.NewRequest(&OpenSessionRequest{Load: true}))
	require.NoError(t, err)
	assert.Equal(t, "categories down", res.Msg.State.State.LastError)
	assert.Len(t, res.Msg.State.State.Products, 1)
}

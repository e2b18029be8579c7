package handler

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// CatalogServiceClient はConnect経由でカタログサービスを呼び出すクライアントです
type CatalogServiceClient struct {
	openSession      *connect.Client[OpenSessionRequest, OpenSessionResponse]
	closeSession     *connect.Client[SessionRequest, CloseSessionResponse]
	getState         *connect.Client[SessionRequest, StateResponse]
	fetchCategories  *connect.Client[SessionRequest, StateResponse]
	fetchProducts    *connect.Client[FetchProductsRequest, StateResponse]
	setSearchQuery   *connect.Client[SetSearchQueryRequest, StateResponse]
	setCategory      *connect.Client[SetCategoryRequest, StateResponse]
	loadMoreProducts *connect.Client[SessionRequest, StateResponse]
	refresh          *connect.Client[SessionRequest, StateResponse]
}

// NewCatalogServiceClient は baseURL で待ち受けるカタログサービスのクライアントを作成します
func NewCatalogServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CatalogServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &CatalogServiceClient{
		openSession:      connect.NewClient[OpenSessionRequest, OpenSessionResponse](httpClient, baseURL+OpenSessionProcedure, opts...),
		closeSession:     connect.NewClient[SessionRequest, CloseSessionResponse](httpClient, baseURL+CloseSessionProcedure, opts...),
		getState:         connect.NewClient[SessionRequest, StateResponse](httpClient, baseURL+GetStateProcedure, opts...),
		fetchCategories:  connect.NewClient[SessionRequest, StateResponse](httpClient, baseURL+FetchCategoriesProcedure, opts...),
		fetchProducts:    connect.NewClient[FetchProductsRequest, StateResponse](httpClient, baseURL+FetchProductsProcedure, opts...),
		setSearchQuery:   connect.NewClient[SetSearchQueryRequest, StateResponse](httpClient, baseURL+SetSearchQueryProcedure, opts...),
		setCategory:      connect.NewClient[SetCategoryRequest, StateResponse](httpClient, baseURL+SetCategoryProcedure, opts...),
		loadMoreProducts: connect.NewClient[SessionRequest, StateResponse](httpClient, baseURL+LoadMoreProductsProcedure, opts...),
		refresh:          connect.NewClient[SessionRequest, StateResponse](httpClient, baseURL+RefreshProcedure, opts...),
	}
}

func (c *CatalogServiceClient) OpenSession(ctx context.Context, req *OpenSessionRequest) (*OpenSessionResponse, error) {
	return call(ctx, c.openSession, req)
}

func (c *CatalogServiceClient) CloseSession(ctx context.Context, sessionID string) (*CloseSessionResponse, error) {
	return call(ctx, c.closeSession, &SessionRequest{SessionID: sessionID})
}

func (c *CatalogServiceClient) GetState(ctx context.Context, sessionID string) (*StateResponse, error) {
	return call(ctx, c.getState, &SessionRequest{SessionID: sessionID})
}

func (c *CatalogServiceClient) FetchCategories(ctx context.Context, sessionID string) (*StateResponse, error) {
	return call(ctx, c.fetchCategories, &SessionRequest{SessionID: sessionID})
}

func (c *CatalogServiceClient) FetchProducts(ctx context.Context, req *FetchProductsRequest) (*StateResponse, error) {
	return call(ctx, c.fetchProducts, req)
}

func (c *CatalogServiceClient) SetSearchQuery(ctx context.Context, req *SetSearchQueryRequest) (*StateResponse, error) {
	return call(ctx, c.setSearchQuery, req)
}

func (c *CatalogServiceClient) SetCategory(ctx context.Context, req *SetCategoryRequest) (*StateResponse, error) {
	return call(ctx, c.setCategory, req)
}

func (c *CatalogServiceClient) LoadMoreProducts(ctx context.Context, sessionID string) (*StateResponse, error) {
	return call(ctx, c.loadMoreProducts, &SessionRequest{SessionID: sessionID})
}

func (c *CatalogServiceClient) Refresh(ctx context.Context, sessionID string) (*StateResponse, error) {
	return call(ctx, c.refresh, &SessionRequest{SessionID: sessionID})
}

func call[Req, Res any](ctx context.Context, c *connect.Client[Req, Res], msg *Req) (*Res, error) {
	res, err := c.CallUnary(ctx, connect.NewRequest(msg))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"go.uber.org/zap"
	"jo3qma.com/product_catalog/internal/usecase"
)

// CatalogServiceName はConnectのサービス名です
const CatalogServiceName = "catalog.v1.CatalogService"

const (
	OpenSessionProcedure      = "/" + CatalogServiceName + "/OpenSession"
	CloseSessionProcedure     = "/" + CatalogServiceName + "/CloseSession"
	GetStateProcedure         = "/" + CatalogServiceName + "/GetState"
	FetchCategoriesProcedure  = "/" + CatalogServiceName + "/FetchCategories"
	FetchProductsProcedure    = "/" + CatalogServiceName + "/FetchProducts"
	SetSearchQueryProcedure   = "/" + CatalogServiceName + "/SetSearchQuery"
	SetCategoryProcedure      = "/" + CatalogServiceName + "/SetCategory"
	LoadMoreProductsProcedure = "/" + CatalogServiceName + "/LoadMoreProducts"
	RefreshProcedure          = "/" + CatalogServiceName + "/Refresh"
)

// Sessions はハンドラーが必要とするセッション管理の操作です
type Sessions interface {
	Open() (string, *usecase.CatalogStore)
	Get(id string) (*usecase.CatalogStore, error)
	Close(id string) bool
}

// CatalogHandler はConnectのハンドラー実装です
// プロトコル層とドメイン層（usecase）を橋渡しします
type CatalogHandler struct {
	sessions Sessions
	logger   *zap.Logger
}

// NewCatalogHandler は新しいCatalogHandlerインスタンスを作成します
func NewCatalogHandler(sessions Sessions, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// NewCatalogServiceHandler はすべての手続きを登録した http.Handler と、そのマウント先のパスを返します
func NewCatalogServiceHandler(h *CatalogHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(OpenSessionProcedure, connect.NewUnaryHandler(OpenSessionProcedure, h.OpenSession, opts...))
	mux.Handle(CloseSessionProcedure, connect.NewUnaryHandler(CloseSessionProcedure, h.CloseSession, opts...))
	mux.Handle(GetStateProcedure, connect.NewUnaryHandler(GetStateProcedure, h.GetState, opts...))
	mux.Handle(FetchCategoriesProcedure, connect.NewUnaryHandler(FetchCategoriesProcedure, h.FetchCategories, opts...))
	mux.Handle(FetchProductsProcedure, connect.NewUnaryHandler(FetchProductsProcedure, h.FetchProducts, opts...))
	mux.Handle(SetSearchQueryProcedure, connect.NewUnaryHandler(SetSearchQueryProcedure, h.SetSearchQuery, opts...))
	mux.Handle(SetCategoryProcedure, connect.NewUnaryHandler(SetCategoryProcedure, h.SetCategory, opts...))
	mux.Handle(LoadMoreProductsProcedure, connect.NewUnaryHandler(LoadMoreProductsProcedure, h.LoadMoreProducts, opts...))
	mux.Handle(RefreshProcedure, connect.NewUnaryHandler(RefreshProcedure, h.Refresh, opts...))
	return "/" + CatalogServiceName + "/", mux
}

// OpenSession は新しいセッションを作成します
func (h *CatalogHandler) OpenSession(
	ctx context.Context,
	req *connect.Request[OpenSessionRequest],
) (*connect.Response[OpenSessionResponse], error) {
	id, store := h.sessions.Open()
	h.logger.Info("session opened", zap.String("session_id", id))

	if req.Msg.Load {
		// 失敗はストアの LastError に反映されるので、ここではログだけ残す
		if err := store.Refresh(ctx); err != nil {
			h.logger.Warn("initial load failed", zap.String("session_id", id), zap.Error(err))
		}
	}

	return connect.NewResponse(&OpenSessionResponse{
		SessionID: id,
		State:     stateResponse(store),
	}), nil
}

// CloseSession はセッションを破棄します
func (h *CatalogHandler) CloseSession(
	ctx context.Context,
	req *connect.Request[SessionRequest],
) (*connect.Response[CloseSessionResponse], error) {
	if req.Msg.SessionID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("session id is required"))
	}
	closed := h.sessions.Close(req.Msg.SessionID)
	if closed {
		h.logger.Info("session closed", zap.String("session_id", req.Msg.SessionID))
	}
	return connect.NewResponse(&CloseSessionResponse{Closed: closed}), nil
}

// GetState はストアの現在の状態を返します
func (h *CatalogHandler) GetState(
	ctx context.Context,
	req *connect.Request[SessionRequest],
) (*connect.Response[StateResponse], error) {
	return h.withStore(req.Msg.SessionID, func(*usecase.CatalogStore) {})
}

// FetchCategories はカテゴリ一覧を取得し直します
func (h *CatalogHandler) FetchCategories(
	ctx context.Context,
	req *connect.Request[SessionRequest],
) (*connect.Response[StateResponse], error) {
	return h.withStore(req.Msg.SessionID, func(s *usecase.CatalogStore) {
		s.FetchCategories(ctx)
	})
}

// FetchProducts は現在の条件で商品を取得します
func (h *CatalogHandler) FetchProducts(
	ctx context.Context,
	req *connect.Request[FetchProductsRequest],
) (*connect.Response[StateResponse], error) {
	return h.withStore(req.Msg.SessionID, func(s *usecase.CatalogStore) {
		s.FetchProducts(ctx, req.Msg.Reset)
	})
}

// SetSearchQuery は検索語を変更します
func (h *CatalogHandler) SetSearchQuery(
	ctx context.Context,
	req *connect.Request[SetSearchQueryRequest],
) (*connect.Response[StateResponse], error) {
	return h.withStore(req.Msg.SessionID, func(s *usecase.CatalogStore) {
		s.SetSearchQuery(ctx, req.Msg.Query)
	})
}

// SetCategory はカテゴリを変更します
func (h *CatalogHandler) SetCategory(
	ctx context.Context,
	req *connect.Request[SetCategoryRequest],
) (*connect.Response[StateResponse], error) {
	return h.withStore(req.Msg.SessionID, func(s *usecase.CatalogStore) {
		s.SetCategory(ctx, req.Msg.Category)
	})
}

// LoadMoreProducts は次のページを読み込みます
func (h *CatalogHandler) LoadMoreProducts(
	ctx context.Context,
	req *connect.Request[SessionRequest],
) (*connect.Response[StateResponse], error) {
	return h.withStore(req.Msg.SessionID, func(s *usecase.CatalogStore) {
		s.LoadMoreProducts(ctx)
	})
}

// Refresh はカテゴリと商品の1ページ目を取得し直します
func (h *CatalogHandler) Refresh(
	ctx context.Context,
	req *connect.Request[SessionRequest],
) (*connect.Response[StateResponse], error) {
	return h.withStore(req.Msg.SessionID, func(s *usecase.CatalogStore) {
		if err := s.Refresh(ctx); err != nil {
			h.logger.Warn("refresh failed", zap.String("session_id", req.Msg.SessionID), zap.Error(err))
		}
	})
}

// withStore はセッションのストアに操作を適用し、適用後の状態を返します
func (h *CatalogHandler) withStore(sessionID string, op func(*usecase.CatalogStore)) (*connect.Response[StateResponse], error) {
	if sessionID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("session id is required"))
	}
	store, err := h.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, usecase.ErrSessionNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	op(store)
	resp := stateResponse(store)
	return connect.NewResponse(&resp), nil
}

// stateResponse はストアの状態をレスポンスに変換します
func stateResponse(store *usecase.CatalogStore) StateResponse {
	st := store.State()
	return StateResponse{
		State:            st,
		FilteredProducts: usecase.FilterProducts(st.Products, st.SelectedCategory, st.SearchQuery),
		HasMore:          st.HasMore(),
	}
}

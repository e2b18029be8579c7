package handler

import "jo3qma.com/product_catalog/internal/domain/model"

// OpenSessionRequest はセッション作成のリクエストです
// Load が true の場合、カテゴリと商品の1ページ目を取得してから応答します
type OpenSessionRequest struct {
	Load bool `json:"load"`
}

// OpenSessionResponse はセッション作成のレスポンスです
type OpenSessionResponse struct {
	SessionID string        `json:"sessionId"`
	State     StateResponse `json:"state"`
}

// SessionRequest はセッションIDだけを持つリクエストです
type SessionRequest struct {
	SessionID string `json:"sessionId"`
}

// FetchProductsRequest は商品取得のリクエストです
type FetchProductsRequest struct {
	SessionID string `json:"sessionId"`
	Reset     bool   `json:"reset"`
}

// SetSearchQueryRequest は検索語変更のリクエストです
type SetSearchQueryRequest struct {
	SessionID string `json:"sessionId"`
	Query     string `json:"query"`
}

// SetCategoryRequest はカテゴリ変更のリクエストです。空文字列で選択を解除します
type SetCategoryRequest struct {
	SessionID string `json:"sessionId"`
	Category  string `json:"category"`
}

// StateResponse はストアの状態と、ローカルフィルタを適用した商品一覧です
type StateResponse struct {
	State            model.QueryState `json:"state"`
	FilteredProducts []model.Product  `json:"filteredProducts"`
	HasMore          bool             `json:"hasMore"`
}

// CloseSessionResponse はセッション破棄のレスポンスです
type CloseSessionResponse struct {
	Closed bool `json:"closed"`
}

package model

// DefaultPageSize は1ページあたりの既定の取得件数です
const DefaultPageSize = 12

// QueryState はカタログストアが保持する状態のスナップショットです
// SelectedCategory と LastError は空文字列を「未設定」として扱います
type QueryState struct {
	Products         []Product  `json:"products"`
	Categories       []Category `json:"categories"`
	SearchQuery      string     `json:"searchQuery"`
	SelectedCategory string     `json:"selectedCategory,omitempty"`
	Page             int64      `json:"page"`
	PageSize         int64      `json:"pageSize"`
	Total            int64      `json:"total"`
	Loading          bool       `json:"loading"`
	LastError        string     `json:"lastError,omitempty"`
}

// HasMore はまだ読み込んでいない商品がサーバー側に残っているかを返します
func (s QueryState) HasMore() bool {
	return int64(len(s.Products)) < s.Total
}

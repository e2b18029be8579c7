package model

// Category はカテゴリのドメインモデルです
// ID はAPIの値ではなく、レスポンス順にローカルで採番した0始まりの連番です
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	URL  string `json:"url,omitempty"` // 省略可能
}

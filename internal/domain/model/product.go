package model

// Product は外部カタログAPIから受け取る商品のドメインモデルです
// 受信後は変更されず、同一性は ID で判定します
type Product struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
}

// ProductPage は商品一覧のページ取得結果を表します
type ProductPage struct {
	Products []Product
	Total    int64 // 現在のフィルタ条件でサーバーが返した総件数
}

// ProductQuery は商品一覧取得の条件です
// Category と Search が両方指定された場合は Category が優先されます
type ProductQuery struct {
	Category string
	Search   string
	Limit    int64
	Skip     int64
}

package dto

// PublishBookRequest HTTP上架请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围校验
type PublishBookRequest struct {
	Title       string `json:"title" binding:"required,max=200" example:"Go语言实战"`
	Author      string `json:"author" binding:"max=100" example:"威廉·肯尼迪"`
	Genre       string `json:"genre" binding:"max=50" example:"计算机"`
	Publisher   string `json:"publisher" binding:"max=100" example:"人民邮电出版社"`
	Price       int64  `json:"price" binding:"required,min=1,max=9999999" example:"5900"` // 价格(分),59.00元
	SalePrice   int64  `json:"sale_price" binding:"min=0" example:"4900"`                 // 促销价(分),0表示无促销
	Stock       int    `json:"stock" binding:"min=0" example:"100"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=255" example:"https://example.com/cover.jpg"`
	Description string `json:"description" binding:"max=5000"`
}

// UpdateBookRequest HTTP图书更新请求
// 约定:price为0表示不调价,stock为-1表示不修改库存,空字符串字段不修改
type UpdateBookRequest struct {
	Title       string `json:"title" binding:"max=200"`
	Author      string `json:"author" binding:"max=100"`
	Genre       string `json:"genre" binding:"max=50"`
	Publisher   string `json:"publisher" binding:"max=100"`
	Price       int64  `json:"price" binding:"min=0,max=9999999"`
	SalePrice   int64  `json:"sale_price" binding:"min=0"`
	Stock       int    `json:"stock" binding:"min=-1"`
	CoverURL    string `json:"cover_url" binding:"omitempty,url,max=255"`
	Description string `json:"description" binding:"max=5000"`
}

// ListBooksRequest HTTP图书列表查询参数
type ListBooksRequest struct {
	Page     int    `form:"page,default=1" binding:"min=0"`
	PageSize int    `form:"page_size,default=10" binding:"min=0,max=100"`
	Keyword  string `form:"keyword" binding:"max=100"`
	Genre    string `form:"genre" binding:"max=50"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=price_asc price_desc sold_qty_desc created_at_desc"`
}

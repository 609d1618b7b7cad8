package dto

// GenreRequest HTTP分类创建/重命名请求
type GenreRequest struct {
	Name string `json:"name" binding:"required,max=50" example:"计算机"`
}

// Package http 组装HTTP路由
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/is216/bookweb/internal/interface/http/handler"
	"github.com/is216/bookweb/internal/interface/http/middleware"
	"github.com/is216/bookweb/pkg/response"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	User    *handler.UserHandler
	Book    *handler.BookHandler
	Genre   *handler.GenreHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Payment *handler.PaymentHandler
}

// NewRouter 创建Gin引擎并注册全部路由
func NewRouter(mode string, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	if mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标(访问 /metrics 抓取)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档(访问 /swagger/index.html)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/login", h.User.Login)
			users.POST("/logout", auth.RequireAuth(), h.User.Logout)
			users.GET("/profile", auth.RequireAuth(), h.User.GetProfile)
			users.PUT("/profile", auth.RequireAuth(), h.User.UpdateProfile)
			users.PUT("/password", auth.RequireAuth(), h.User.ChangePassword)
		}

		// 图书模块:查询公开,写操作需要管理员
		books := v1.Group("/books")
		{
			books.GET("", h.Book.ListBooks)
			books.GET("/:id", h.Book.GetBook)
			books.POST("", auth.RequireAuth(), auth.RequireAdmin(), h.Book.PublishBook)
			books.PUT("/:id", auth.RequireAuth(), auth.RequireAdmin(), h.Book.UpdateBook)
			books.DELETE("/:id", auth.RequireAuth(), auth.RequireAdmin(), h.Book.DeleteBook)
		}

		// 分类模块
		genres := v1.Group("/genres")
		{
			genres.GET("", h.Genre.ListGenres)
			genres.POST("", auth.RequireAuth(), auth.RequireAdmin(), h.Genre.CreateGenre)
			genres.PUT("/:id", auth.RequireAuth(), auth.RequireAdmin(), h.Genre.RenameGenre)
			genres.DELETE("/:id", auth.RequireAuth(), auth.RequireAdmin(), h.Genre.DeleteGenre)
		}

		// 购物车模块(需要登录)
		cart := v1.Group("/cart")
		cart.Use(auth.RequireAuth())
		{
			cart.GET("", h.Cart.GetCart)
			cart.PUT("", h.Cart.SetCart)
		}

		// 订单模块(需要登录)
		orders := v1.Group("/orders")
		orders.Use(auth.RequireAuth())
		{
			orders.POST("/checkout", h.Order.Checkout)
			orders.GET("", h.Order.ListMyOrders)
			orders.GET("/:id", h.Order.GetOrder)
			orders.PUT("/:id/status", h.Order.UpdateStatus)
		}

		// 管理员订单查询
		admin := v1.Group("/admin")
		admin.Use(auth.RequireAuth(), auth.RequireAdmin())
		{
			admin.GET("/orders", h.Order.ListAllOrders)
		}

		// 支付模块:回调来自支付网关,不要求登录
		payment := v1.Group("/payment")
		{
			payment.GET("/vnpay", auth.RequireAuth(), h.Payment.CreatePayment)
			payment.GET("/vnpay/callback", h.Payment.Callback)
		}
	}

	return r
}

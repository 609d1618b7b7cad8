package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appbook "github.com/is216/bookweb/internal/application/book"
	appcart "github.com/is216/bookweb/internal/application/cart"
	appgenre "github.com/is216/bookweb/internal/application/genre"
	apporder "github.com/is216/bookweb/internal/application/order"
	apppayment "github.com/is216/bookweb/internal/application/payment"
	appuser "github.com/is216/bookweb/internal/application/user"
	"github.com/is216/bookweb/internal/domain/book"
	"github.com/is216/bookweb/internal/domain/genre"
	"github.com/is216/bookweb/internal/domain/order"
	"github.com/is216/bookweb/internal/domain/user"
	"github.com/is216/bookweb/internal/infrastructure/config"
	"github.com/is216/bookweb/internal/infrastructure/event"
	"github.com/is216/bookweb/internal/infrastructure/payment"
	"github.com/is216/bookweb/internal/infrastructure/persistence/mysql"
	"github.com/is216/bookweb/internal/infrastructure/persistence/redis"
	apphttp "github.com/is216/bookweb/internal/interface/http"
	"github.com/is216/bookweb/internal/interface/http/handler"
	"github.com/is216/bookweb/internal/interface/http/middleware"
	"github.com/is216/bookweb/pkg/jwt"
	"github.com/is216/bookweb/pkg/metrics"
	"github.com/is216/bookweb/pkg/mq"
	"github.com/is216/bookweb/pkg/tracing"
)

// @title           BookWeb API
// @version         1.0
// @description     网上书店后端服务:图书检索、购物车、下单结算与订单管理
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// main 主程序入口
// 说明:手动依赖注入(与cmd/api/wire.go的Wire版本等价,便于对照学习)
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	fmt.Printf("  - 消息队列: enabled=%v\n", cfg.MQ.Enabled)
	fmt.Printf("  - 链路追踪: enabled=%v\n", cfg.Tracing.Enabled)

	// 2. 初始化可观测性组件
	metrics.InitMetrics()
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			log.Fatalf("初始化链路追踪失败: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Printf("关闭链路追踪失败: %v", err)
			}
		}()
		fmt.Printf("✓ 链路追踪初始化成功: %s\n", cfg.Tracing.CollectorEndpoint)
	}

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化事件发布器
	// MQ未开启时退化为空实现,下单/状态流转对发布失败本就只记日志
	var eventPublisher order.EventPublisher
	if cfg.MQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
		if err != nil {
			log.Fatalf("初始化消息队列失败: %v", err)
		}
		defer publisher.Close()
		eventPublisher = event.NewRabbitMQPublisher(publisher)
		fmt.Printf("✓ 消息队列连接成功: exchange=%s\n", cfg.MQ.Exchange)
	} else {
		eventPublisher = event.NewNoopPublisher()
	}

	// 6. 依赖注入(手动组装)
	// 依赖注入链:Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	genreRepo := mysql.NewGenreRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	checkoutLock := redis.NewCheckoutLock(redisClient, cfg.Redis.CheckoutLockTTL)
	vnpayGateway := payment.NewVNPayGateway(&cfg.Payment)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)
	bookService := book.NewService(bookRepo)
	genreService := genre.NewService(genreRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore, cfg.JWT.RefreshTokenExpire)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	profileUseCase := appuser.NewProfileUseCase(userRepo, userService)
	bookUseCase := appbook.NewUseCase(bookService)
	genreUseCase := appgenre.NewUseCase(genreService)
	cartUseCase := appcart.NewUseCase(cartRepo, bookRepo)
	checkoutUseCase := apporder.NewCheckoutUseCase(cartRepo, bookRepo, orderRepo, txManager, checkoutLock, eventPublisher)
	updateStatusUseCase := apporder.NewUpdateStatusUseCase(orderRepo, bookRepo, txManager, eventPublisher)
	orderQueryUseCase := apporder.NewQueryUseCase(orderRepo)
	paymentUseCase := apppayment.NewUseCase(vnpayGateway, orderRepo)

	// 接口层
	handlers := apphttp.Handlers{
		User:    handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase, profileUseCase, jwtManager),
		Book:    handler.NewBookHandler(bookUseCase),
		Genre:   handler.NewGenreHandler(genreUseCase),
		Cart:    handler.NewCartHandler(cartUseCase),
		Order:   handler.NewOrderHandler(checkoutUseCase, updateStatusUseCase, orderQueryUseCase),
		Payment: handler.NewPaymentHandler(paymentUseCase),
	}
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 初始化Gin引擎并注册路由
	r := apphttp.NewRouter(cfg.Server.Mode, handlers, authMiddleware)

	// 8. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &nethttp.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   访问地址: http://localhost%s\n", addr)
		fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
		fmt.Printf("   接口文档: http://localhost%s/swagger/index.html\n", addr)
		fmt.Printf("   监控指标: http://localhost%s/metrics\n", addr)
		fmt.Printf("\n按Ctrl+C停止服务\n\n")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 9. 优雅关闭:等待信号后给在途请求10秒完成
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务关闭失败: %v", err)
	}
	fmt.Println("服务已退出")
}

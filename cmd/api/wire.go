//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

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
	"github.com/is216/bookweb/pkg/mq"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：配置加载、数据库连接、Redis连接、支付网关、事件发布器
var infrastructureSet = wire.NewSet(
	config.Load,           // 加载配置文件
	provideDatabaseConfig, // 提取数据库子配置
	provideRedisConfig,    // 提取Redis子配置
	providePaymentConfig,  // 提取支付子配置
	mysql.NewDB,           // 创建MySQL连接
	redis.NewClient,       // 创建Redis连接
	payment.NewVNPayGateway,
	provideEventPublisher, // 按配置选择RabbitMQ或空实现
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,  // 用户仓储
	mysql.NewCartRepository,  // 购物车仓储
	mysql.NewBookRepository,  // 图书仓储
	mysql.NewGenreRepository, // 分类仓储
	mysql.NewOrderRepository, // 订单仓储
	mysql.NewTxManager,       // 事务管理器
	// 下单与状态流转用例依赖接口而非具体实现,这里做接口绑定
	wire.Bind(new(apporder.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(apporder.CheckoutLocker), new(*redis.CheckoutLock)),
	provideCheckoutLock,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,  // 用户领域服务
	book.NewService,  // 图书领域服务
	genre.NewService, // 分类领域服务
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,      // 用户注册用例
	provideLoginUseCase,             // 用户登录用例（需要从config提取会话TTL）
	appuser.NewLogoutUseCase,        // 用户登出用例
	appuser.NewProfileUseCase,       // 个人信息用例
	appbook.NewUseCase,              // 图书管理用例
	appgenre.NewUseCase,             // 分类管理用例
	appcart.NewUseCase,              // 购物车用例
	apporder.NewCheckoutUseCase,     // 下单用例
	apporder.NewUpdateStatusUseCase, // 订单状态流转用例
	apporder.NewQueryUseCase,        // 订单查询用例
	apppayment.NewUseCase,           // 支付用例
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,            // JWT管理器（需要从config提取参数）
	provideSessionStore,          // Session存储（需要从Redis创建）
	middleware.NewAuthMiddleware, // 认证中间件
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,    // 用户处理器
	handler.NewBookHandler,    // 图书处理器
	handler.NewGenreHandler,   // 分类处理器
	handler.NewCartHandler,    // 购物车处理器
	handler.NewOrderHandler,   // 订单处理器
	handler.NewPaymentHandler, // 支付处理器
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 有些依赖的构造函数参数不是直接的类型，需要从Config中提取，
// Wire无法自动知道如何从Config提取字段，所以手动编写Provider。

// provideDatabaseConfig 提取数据库子配置
func provideDatabaseConfig(cfg *config.Config) *config.DatabaseConfig {
	return &cfg.Database
}

// provideRedisConfig 提取Redis子配置
func provideRedisConfig(cfg *config.Config) *config.RedisConfig {
	return &cfg.Redis
}

// providePaymentConfig 提取支付子配置
func providePaymentConfig(cfg *config.Config) *config.PaymentConfig {
	return &cfg.Payment
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideCheckoutLock 从Redis客户端创建结算互斥锁
// 锁TTL来自配置,防止进程崩溃后锁永久残留
func provideCheckoutLock(client *goredis.Client, cfg *config.Config) *redis.CheckoutLock {
	return redis.NewCheckoutLock(client, cfg.Redis.CheckoutLockTTL)
}

// provideEventPublisher 按配置创建事件发布器
// MQ未开启时退化为空实现,业务流程不依赖消息投递成功
func provideEventPublisher(cfg *config.Config) (order.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return event.NewNoopPublisher(), nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		return nil, err
	}
	return event.NewRabbitMQPublisher(publisher), nil
}

// provideLoginUseCase 创建登录用例
// 会话TTL与刷新令牌有效期对齐:刷新令牌过期后会话必然失效
func provideLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessions *redis.SessionStore,
	cfg *config.Config,
) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessions, cfg.JWT.RefreshTokenExpire)
}

// provideGinEngine 创建并配置Gin引擎
// 路由注册统一收敛在internal/interface/http.NewRouter中,
// 与main.go的手动装配版本共享同一份路由表
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	genreHandler *handler.GenreHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	return apphttp.NewRouter(cfg.Server.Mode, apphttp.Handlers{
		User:    userHandler,
		Book:    bookHandler,
		Genre:   genreHandler,
		Cart:    cartHandler,
		Order:   orderHandler,
		Payment: paymentHandler,
	}, authMiddleware)
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// wire.Build告诉Wire需要哪些Provider来构建*gin.Engine，
// Wire会在编译期分析依赖关系并按正确顺序生成初始化代码。
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)

	// 占位返回值,实际代码由wire_gen.go生成
	return nil, nil
}

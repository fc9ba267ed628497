package router

import (
	"fmt"
	"strings"

	"github.com/lunatickworker/hybridcasino-sub000/internal/cache"
	"github.com/lunatickworker/hybridcasino-sub000/internal/config"
	adminhandlers "github.com/lunatickworker/hybridcasino-sub000/internal/http/handlers/admin"
	"github.com/lunatickworker/hybridcasino-sub000/internal/logger"
	"github.com/lunatickworker/hybridcasino-sub000/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "hc"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "登录尝试过于频繁",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.GET("/me", adminHandler.GetAdminMe)
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)

				// 结算表
				authorized.GET("/settlement", adminHandler.GetSettlement)
				authorized.GET("/settlement/summary", adminHandler.GetSettlementSummary)
				authorized.POST("/settlement/snapshot", adminHandler.TriggerSettlementSnapshot)

				// 组织目录
				authorized.GET("/partners", adminHandler.GetAdminPartners)
				authorized.POST("/partners", adminHandler.CreatePartner)
				authorized.GET("/partners/:id", adminHandler.GetAdminPartner)
				authorized.PUT("/partners/:id/rates", adminHandler.UpdatePartnerRates)
				authorized.PATCH("/partners/:id/status", adminHandler.UpdatePartnerStatus)
				authorized.GET("/members", adminHandler.GetAdminMembers)
				authorized.POST("/members", adminHandler.CreateMember)

				// 资金与积分台账
				authorized.GET("/cash-events", adminHandler.GetCashEvents)
				authorized.POST("/cash-events", adminHandler.CreateCashEvent)
				authorized.PATCH("/cash-events/:id/resolve", adminHandler.ResolveCashEvent)
				authorized.GET("/point-events", adminHandler.GetPointEvents)
				authorized.POST("/point-events", adminHandler.CreatePointEvent)

				// 注单采集
				authorized.GET("/wagers", adminHandler.GetWagers)
				authorized.POST("/wagers/ingest", adminHandler.IngestWagers)

				// 设置管理
				authorized.GET("/settings/padding-cut", adminHandler.GetPaddingCutSettings)
				authorized.PUT("/settings/padding-cut", adminHandler.UpdatePaddingCutSettings)
				authorized.GET("/settings/site", adminHandler.GetSiteSettings)
				authorized.PUT("/settings/site", adminHandler.UpdateSiteSettings)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

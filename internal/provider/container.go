package provider

import (
	"github.com/lunatickworker/hybridcasino-sub000/internal/cache"
	"github.com/lunatickworker/hybridcasino-sub000/internal/config"
	"github.com/lunatickworker/hybridcasino-sub000/internal/logger"
	"github.com/lunatickworker/hybridcasino-sub000/internal/models"
	"github.com/lunatickworker/hybridcasino-sub000/internal/queue"
	"github.com/lunatickworker/hybridcasino-sub000/internal/repository"
	"github.com/lunatickworker/hybridcasino-sub000/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	PartnerRepo    repository.PartnerRepository
	MemberRepo     repository.MemberRepository
	WagerRepo      repository.WagerRepository
	CashEventRepo  repository.CashEventRepository
	PointEventRepo repository.PointEventRepository
	SettingRepo    repository.SettingRepository

	// Services
	AuthService       *service.AuthService
	PartnerService    *service.PartnerService
	LedgerService     *service.LedgerService
	SettingService    *service.SettingService
	SettlementService *service.SettlementService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.PartnerRepo = repository.NewPartnerRepository(db)
	c.MemberRepo = repository.NewMemberRepository(db)
	c.WagerRepo = repository.NewWagerRepository(db)
	c.CashEventRepo = repository.NewCashEventRepository(db)
	c.PointEventRepo = repository.NewPointEventRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
}

func (c *Container) initServices() {
	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.PartnerService = service.NewPartnerService(c.PartnerRepo, c.MemberRepo)
	c.LedgerService = service.NewLedgerService(c.PartnerRepo, c.MemberRepo, c.CashEventRepo, c.PointEventRepo, c.WagerRepo)
	c.SettlementService = service.NewSettlementService(
		c.PartnerRepo,
		c.MemberRepo,
		c.WagerRepo,
		c.CashEventRepo,
		c.PointEventRepo,
		c.SettingService,
		&c.Config.Settlement,
	)
}

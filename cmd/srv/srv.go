package main

import (
	"context"
	"log"

	"github.com/personachat/backend/config"
	"github.com/personachat/backend/internal/domain"
	"github.com/personachat/backend/internal/domain/badge"
	"github.com/personachat/backend/internal/domain/notification"
	"github.com/personachat/backend/internal/repository"
	"github.com/personachat/backend/pkg/kafka"
	"github.com/personachat/backend/pkg/logger"
	"github.com/personachat/backend/pkg/pubsub"
	"github.com/personachat/backend/pkg/router"
	"github.com/personachat/backend/pkg/xcontext"
	"github.com/personachat/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	redisClient xredis.Client
	publisher   pubsub.Publisher
	stopKafka   func(context.Context) error

	progressRepo     repository.UserBadgeProgressRepository
	notificationRepo repository.NotificationRepository

	badgeManager *badge.Manager
	hub          *notification.Hub

	achievementDomain        domain.AchievementDomain
	notificationStreamDomain domain.NotificationStreamDomain

	router *router.Router
}

func (s *srv) loadConfig(cctx *cli.Context) {
	cfg, err := config.Load(cctx.String(configFlag.Name))
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithConfigs(context.Background(), cfg)
}

func (s *srv) loadLogger() {
	cfg := xcontext.Configs(s.ctx)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
}

func (s *srv) loadDatabase() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	return db
}

// loadRedisClient connects to redis if enabled. Without redis the scratch
// state of trackers is kept in memory.
func (s *srv) loadRedisClient() {
	if !xcontext.Configs(s.ctx).Redis.Enable {
		return
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = client
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	if !cfg.Enable {
		return
	}

	publisher, err := kafka.NewPublisher(cfg.ClientID, cfg.Addrs)
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
	s.stopKafka = publisher.Stop
}

func (s *srv) loadRepos() {
	s.progressRepo = repository.NewUserBadgeProgressRepository()
	s.notificationRepo = repository.NewNotificationRepository()
}

func (s *srv) loadBadgeManager() {
	cfg := xcontext.Configs(s.ctx).Achievement
	catalog := badge.DefaultCatalog()

	var scratchStore badge.ScratchStore = badge.NewMemoryScratchStore()
	if s.redisClient != nil {
		scratchStore = badge.NewRedisScratchStore(s.redisClient, cfg.ScratchTTL)
	}

	s.badgeManager = badge.NewManager(
		catalog,
		badge.NewProgressStore(catalog, s.progressRepo),
		scratchStore,
		s.notificationRepo,
		badge.TrackerOptions{
			Location:      cfg.Location(),
			ToastDuration: cfg.ToastDuration,
			RecentWindow:  cfg.RecentUnlockWindow,
		},
	)
}

func (s *srv) loadNotification() {
	s.hub = notification.NewHub()

	dispatcher := domain.NewNotificationDispatcher(
		s.hub, s.publisher, xcontext.Configs(s.ctx).Kafka.NotificationTopic)
	s.badgeManager.OnNotification(dispatcher.Dispatch)
}

func (s *srv) loadDomains() {
	s.achievementDomain = domain.NewAchievementDomain(s.notificationRepo, s.badgeManager)
	s.notificationStreamDomain = domain.NewNotificationStreamDomain(s.hub)
}

func (s *srv) shutdown(ctx context.Context) {
	if err := s.badgeManager.Shutdown(ctx); err != nil {
		xcontext.Logger(s.ctx).Errorf("Cannot stop badge trackers: %v", err)
	}

	if s.stopKafka != nil {
		if err := s.stopKafka(ctx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot stop kafka publisher: %v", err)
		}
	}

	log.Println("server stop")
}

package http

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	transferApp "github.com/Saaayurii/Chat-sub000/internal/application/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/application/transfer/usecases"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/adapters"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/auth"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/cache"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/config"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/email"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/messaging"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/permission"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/pubsub"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/ratelimit"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/repository"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/services"
	"github.com/Saaayurii/Chat-sub000/internal/interfaces/http/handlers"
	transferHandlers "github.com/Saaayurii/Chat-sub000/internal/interfaces/http/handlers/transfer"
	"github.com/Saaayurii/Chat-sub000/internal/interfaces/http/middleware"
	"github.com/Saaayurii/Chat-sub000/internal/shared/constants"
	"github.com/Saaayurii/Chat-sub000/internal/shared/db"
	"github.com/Saaayurii/Chat-sub000/internal/shared/goroutine"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
	"github.com/Saaayurii/Chat-sub000/internal/shared/services/sanitize"
)

// Container holds the infrastructure, the coordinator, the handlers and the
// background notification bus. StopRealtime releases sockets and presence;
// Shutdown then closes the shared clients.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	// Realtime delivery
	hub         *services.OperatorHub
	bus         *pubsub.RedisNotificationBus
	presence    *adapters.PresenceAdapter
	busCancel   context.CancelFunc
	busCancelMu sync.Mutex

	realtimeOnce sync.Once
	shutdownOnce sync.Once

	// Audit events
	eventSink messaging.Sink

	coordinator *transferApp.TransferCoordinator

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimitMiddleware  *middleware.RateLimitMiddleware

	// Handlers
	transferHandler *transferHandlers.TransferHandler
	wsHandler       *transferHandlers.WSHandler
	healthHandler   *handlers.HealthHandler
}

// NewContainer wires every component from cfg. redisClient may be nil, in
// which case one is created from cfg.Redis and pinged.
func NewContainer(ctx context.Context, gdb *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     gdb,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	if c.redis == nil {
		client, err := initRedis(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		c.redis = client
	}

	if err := c.initTransfer(ctx); err != nil {
		return nil, err
	}
	if err := c.initHTTP(); err != nil {
		return nil, err
	}
	return c, nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(ctx context.Context, cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())
	return client, nil
}

func (c *Container) initTransfer(ctx context.Context) error {
	cfg := c.cfg
	log := c.log

	c.hub = services.NewOperatorHub(log, &services.OperatorHubConfig{
		SendBuffer:             cfg.Hub.SendBuffer,
		MaxSessionsPerOperator: cfg.Hub.MaxSessionsPerOperator,
	})
	c.bus = pubsub.NewRedisNotificationBus(c.redis, c.hub, log)

	directory := cache.NewRedisOperatorDirectory(c.redis)
	c.presence = adapters.NewPresenceAdapter(directory, c.bus.InstanceID(), log)
	c.hub.SetPresenceCallbacks(c.presence.Online, c.presence.Offline)

	sink, err := messaging.NewSink(ctx, &cfg.Events, log)
	if err != nil {
		return fmt.Errorf("failed to create event sink: %w", err)
	}
	c.eventSink = sink
	events := messaging.NewPublisher(sink, cfg.Events.Producer)

	store := adapters.NewConversationStoreAdapter(cache.NewRedisConversationRegistry(c.redis), events, log)

	var mailer usecases.Mailer
	if cfg.Email.Enabled() {
		mailer = email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
		})
	} else {
		log.Infow("email notifications disabled", "reason", "smtp not configured")
	}

	c.coordinator = transferApp.NewTransferCoordinator(transferApp.Dependencies{
		Transfers:     repository.NewTransferRequestRepository(c.db),
		Queue:         repository.NewQueueEntryRepository(c.db),
		Directory:     directory,
		Store:         store,
		TxManager:     db.NewTransactionManager(c.db),
		Notifier:      c.bus,
		Events:        events,
		Mailer:        mailer,
		Sanitizer:     sanitize.New(constants.MaxTextLength),
		ServiceTime:   cfg.Queue.ServiceTime(),
		AssignRetries: cfg.Queue.AssignRetries,
		Logger:        log,
	})

	c.wsHandler = transferHandlers.NewWSHandler(c.hub, directory, cfg.Server.AllowedOrigins, log)
	return nil
}

func (c *Container) initHTTP() error {
	cfg := c.cfg
	log := c.log

	enforcer, err := permission.NewEnforcer(c.db, cfg.Auth.Supervisors, log)
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}

	c.authMiddleware = middleware.NewAuthMiddleware(auth.NewJWTService(cfg.Auth.JWTSecret), enforcer, log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(enforcer, log)
	c.rateLimitMiddleware = middleware.NewRateLimitMiddleware(
		ratelimit.NewRedisRateLimiter(c.redis),
		ratelimit.Policy{Requests: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window},
		log,
	)

	co := c.coordinator
	c.transferHandler = transferHandlers.NewTransferHandler(transferHandlers.Executors{
		RequestTransfer: co.RequestTransfer,
		RespondTransfer: co.RespondTransfer,
		CancelTransfer:  co.CancelTransfer,
		GetTransfer:     co.GetTransfer,
		History:         co.History,
		Enqueue:         co.Enqueue,
		QueuePosition:   co.QueuePosition,
		AssignNext:      co.AssignNext,
		RemoveEntry:     co.RemoveEntry,
		QueueStats:      co.QueueStats,
		AutoAssign:      co.AutoAssign,
		BulkAssign:      co.BulkAssign,
	}, c.permissionMiddleware, log)
	c.healthHandler = handlers.NewHealthHandler(c.db, c.redis)
	return nil
}

// StartNotificationBus relays notifications published by other instances
// to the sockets of this one until Shutdown.
func (c *Container) StartNotificationBus() {
	ctx, cancel := context.WithCancel(context.Background())
	c.busCancelMu.Lock()
	c.busCancel = cancel
	c.busCancelMu.Unlock()

	goroutine.SafeGo(c.log, "notification-bus", func() {
		if err := c.bus.Run(ctx); err != nil {
			logSubscriberExit(c.log, "notification bus", err)
		}
	})
}

// StopRealtime stops the bus, closes every operator socket and flushes the
// resulting presence updates. HTTP requests keep working, so it runs before
// the server drains. Only the first call has an effect.
func (c *Container) StopRealtime(ctx context.Context) {
	c.realtimeOnce.Do(func() { c.stopRealtime(ctx) })
}

func (c *Container) stopRealtime(ctx context.Context) {
	c.busCancelMu.Lock()
	if c.busCancel != nil {
		c.busCancel()
		c.busCancel = nil
	}
	c.busCancelMu.Unlock()

	if c.hub != nil {
		c.hub.Shutdown()
	}
	if c.presence != nil {
		if err := c.presence.Close(ctx); err != nil {
			c.log.Warnw("presence updates not flushed", "error", err)
		}
	}
}

// Shutdown closes the event sink and redis, stopping realtime delivery first
// if StopRealtime was not called. Only the first call has an effect.
func (c *Container) Shutdown() {
	c.shutdownOnce.Do(c.shutdown)
}

func (c *Container) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.StopRealtime(ctx)

	if c.eventSink != nil {
		if err := c.eventSink.Close(); err != nil {
			c.log.Errorw("failed to close event sink", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close redis client", "error", err)
		}
	}
}

// logSubscriberExit logs a subscriber exit; cancellation during shutdown is INFO.
func logSubscriberExit(log logger.Interface, name string, err error) {
	if errors.Is(err, context.Canceled) {
		log.Infow(name+" stopped", "reason", "context canceled")
		return
	}
	log.Errorw(name+" failed", "error", err)
}

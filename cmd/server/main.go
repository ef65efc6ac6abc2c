package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appnotification "github.com/tramites/backend/internal/application/notification"
	apptramite "github.com/tramites/backend/internal/application/tramite"
	"github.com/tramites/backend/internal/domain/notification"
	"github.com/tramites/backend/internal/infrastructure/auth"
	"github.com/tramites/backend/internal/infrastructure/cache"
	"github.com/tramites/backend/internal/infrastructure/config"
	"github.com/tramites/backend/internal/infrastructure/event"
	"github.com/tramites/backend/internal/infrastructure/logger"
	"github.com/tramites/backend/internal/infrastructure/persistence"
	"github.com/tramites/backend/internal/infrastructure/push"
	"github.com/tramites/backend/internal/interfaces/http/handler"
	"github.com/tramites/backend/internal/interfaces/http/middleware"
	"github.com/tramites/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting tramites backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to run schema migration", zap.Error(err))
	}

	// Role directory, cached in Redis when available. The portal runs
	// without Redis, broadcasts then hit the database on every transition.
	var directory notification.RoleDirectory = persistence.NewGormRoleDirectory(db.DB)
	redisClient, err := cache.NewRedisClient(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, role lookups are uncached", zap.Error(err))
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		directory = cache.NewRedisRoleDirectory(directory, redisClient, cfg.Redis.RoleTTL, log)
	}

	// Event pipeline: serializer, bus, outbox
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)

	eventBus := event.NewInMemoryEventBus(log)
	outboxPublisher := event.NewOutboxPublisher(serializer)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Repositories
	requisitionRepo := persistence.NewGormRequisitionRepository(db.DB)
	requisitionRepo.SetOutboxEventSaver(outboxPublisher)
	reimbursementRepo := persistence.NewGormReimbursementRepository(db.DB)
	reimbursementRepo.SetOutboxEventSaver(outboxPublisher)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	preferenceRepo := persistence.NewGormPreferenceRepository(db.DB)

	// Push delivery
	sender := push.NewWebPushSender(push.Config{
		VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.Push.VAPIDPrivateKey,
		Subscriber:      cfg.Push.Subscriber,
		TTL:             cfg.Push.TTL,
		Timeout:         cfg.Push.Timeout,
	})
	dispatcher := push.NewDispatcher(subscriptionRepo, sender, log)

	// Transition notifications ride the outbox through the event bus
	transitionHandler := appnotification.NewTransitionHandler(directory, preferenceRepo, dispatcher, cfg.App.BaseURL, log)
	eventBus.Subscribe(transitionHandler, transitionHandler.EventTypes()...)

	var outboxProcessor *event.OutboxProcessor
	if cfg.Event.ProcessorEnabled {
		outboxProcessor = event.NewOutboxProcessor(outboxRepo, eventBus, serializer, event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
			CleanupInterval:  time.Hour,
		}, log)
		if err := outboxProcessor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
	}

	// Application services
	requisitionService := apptramite.NewRequisitionService(requisitionRepo, log)
	reimbursementService := apptramite.NewReimbursementService(reimbursementRepo, log)
	subscriptionService := appnotification.NewSubscriptionService(subscriptionRepo, log)
	preferenceService := appnotification.NewPreferenceService(preferenceRepo, log)

	// Handlers
	requisitionHandler := handler.NewRequisitionHandler(requisitionService)
	reimbursementHandler := handler.NewReimbursementHandler(reimbursementService)
	notificationHandler := handler.NewNotificationHandler(subscriptionService, preferenceService, cfg.Push)
	systemHandler := handler.NewSystemHandler()

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/system/ping",
			"/api/v1/notificaciones/vapid-key",
		},
		Logger: log,
	}))

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	requisitionRoutes := router.NewDomainGroup("requisiciones", "/requisiciones")
	requisitionRoutes.POST("", requisitionHandler.Create)
	requisitionRoutes.GET("", requisitionHandler.List)
	requisitionRoutes.GET("/deleted", requisitionHandler.ListDeleted)
	requisitionRoutes.GET("/:id", requisitionHandler.Get)
	requisitionRoutes.PUT("/:id", requisitionHandler.EditResubmit)
	requisitionRoutes.POST("/:id/approve", requisitionHandler.Approve)
	requisitionRoutes.POST("/:id/reject", requisitionHandler.Reject)
	requisitionRoutes.POST("/:id/revert", requisitionHandler.Revert)
	requisitionRoutes.POST("/:id/cancel", requisitionHandler.Cancel)
	requisitionRoutes.POST("/:id/advance-to-bidding", requisitionHandler.AdvanceToBidding)
	requisitionRoutes.POST("/:id/reject-before-bidding", requisitionHandler.RejectBeforeBidding)
	requisitionRoutes.POST("/:id/place-order", requisitionHandler.PlaceOrder)
	requisitionRoutes.POST("/:id/authorize-order", requisitionHandler.AuthorizeOrder)
	requisitionRoutes.POST("/:id/mark-paid", requisitionHandler.MarkPaid)
	requisitionRoutes.DELETE("/:id", requisitionHandler.SoftDelete)
	requisitionRoutes.POST("/:id/restore", requisitionHandler.Restore)

	reimbursementRoutes := router.NewDomainGroup("reposiciones", "/reposiciones")
	reimbursementRoutes.POST("", reimbursementHandler.Create)
	reimbursementRoutes.GET("", reimbursementHandler.List)
	reimbursementRoutes.GET("/:id", reimbursementHandler.Get)
	reimbursementRoutes.POST("/:id/approve", reimbursementHandler.Approve)
	reimbursementRoutes.POST("/:id/reject", reimbursementHandler.Reject)
	reimbursementRoutes.POST("/:id/revert", reimbursementHandler.Revert)
	reimbursementRoutes.POST("/:id/cancel", reimbursementHandler.Cancel)
	reimbursementRoutes.POST("/:id/mark-paid", reimbursementHandler.MarkPaid)

	notificationRoutes := router.NewDomainGroup("notificaciones", "/notificaciones")
	notificationRoutes.GET("/vapid-key", notificationHandler.GetVAPIDKey)
	notificationRoutes.POST("/subscription", notificationHandler.Subscribe)
	notificationRoutes.GET("/subscription", notificationHandler.GetSubscription)
	notificationRoutes.DELETE("/subscription", notificationHandler.Unsubscribe)
	notificationRoutes.DELETE("/subscriptions/:user_id", notificationHandler.UnsubscribeUser)
	notificationRoutes.GET("/preferences", notificationHandler.GetPreferences)
	notificationRoutes.PUT("/preferences", notificationHandler.UpdatePreferences)

	r.Register(systemRoutes).
		Register(requisitionRoutes).
		Register(reimbursementRoutes).
		Register(notificationRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if outboxProcessor != nil {
		if err := outboxProcessor.Stop(ctx); err != nil {
			log.Warn("Outbox processor stop timed out", zap.Error(err))
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// healthHandler reports liveness plus database connectivity
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	natsio "github.com/nats-io/nats.go"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tcgbay/marketplace/internal/adapter/email"
	mongoadapter "github.com/tcgbay/marketplace/internal/adapter/mongo"
	natsadapter "github.com/tcgbay/marketplace/internal/adapter/nats"
	redisadapter "github.com/tcgbay/marketplace/internal/adapter/redis"
	"github.com/tcgbay/marketplace/internal/adapter/storage"
	"github.com/tcgbay/marketplace/internal/app/config"
	"github.com/tcgbay/marketplace/internal/platform/logger"
	"github.com/tcgbay/marketplace/internal/platform/tracer"
	"github.com/tcgbay/marketplace/internal/port/http/handler"
	"github.com/tcgbay/marketplace/internal/port/http/router"
	"github.com/tcgbay/marketplace/internal/service"
)

const serviceName = "marketplace"

// App owns every long-lived component and shuts them down in order.
type App struct {
	cfg            *config.Config
	log            logger.Logger
	server         *http.Server
	sweeper        *service.Sweeper
	mongoClient    *mongo.Client
	redisClient    *goredis.Client
	natsConn       *natsio.Conn
	tracerProvider *sdktrace.TracerProvider
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	log, err := logger.NewZapLogger(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Infof("configuration loaded: env=%s, http port %s", cfg.Env, cfg.HTTPServer.Port)

	var tracerProvider *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tracerProvider, err = tracer.Init(ctx, cfg.Tracing.OTLPEndpoint, serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		log.Info("tracing initialized")
	}

	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db := mongoClient.Database(cfg.MongoDB.Database)
	log.Info("MongoDB client initialized")

	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("Redis client initialized")

	natsConn, err := natsadapter.NewConnection(cfg.NATS.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	publisher, err := natsadapter.NewPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}
	log.Info("NATS publisher initialized")

	photoStorage, err := storage.NewPhotoStorage(ctx, cfg.MinIO, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize photo storage: %w", err)
	}
	mailSender := email.NewSMTPSender(cfg.SMTP, log)

	listingRepo := mongoadapter.NewListingRepository(db)
	offerRepo := mongoadapter.NewOfferRepository(db)
	orderRepo := mongoadapter.NewOrderRepository(db)
	userRepo := mongoadapter.NewUserRepository(db)
	favoriteRepo := mongoadapter.NewFavoriteRepository(db)
	wantedRepo := mongoadapter.NewWantedRepository(db)
	threadRepo := mongoadapter.NewThreadRepository(db)
	messageRepo := mongoadapter.NewMessageRepository(db)

	listingCache := redisadapter.NewListingCache(redisClient, cfg.Cache.ListingTTL)
	tierCache := redisadapter.NewTierCache(redisClient, cfg.Cache.TierTTL)
	trending := redisadapter.NewTrendingSearches(redisClient)

	tierSource := service.NewCachedTierSource(userRepo, tierCache, log)
	listingSvc := service.NewListingService(listingRepo, listingCache, tierSource, photoStorage, publisher, log)
	orderSvc := service.NewOrderService(orderRepo, userRepo, listingSvc, publisher, mailSender, log)
	offerSvc := service.NewOfferService(offerRepo, userRepo, listingSvc, orderSvc, publisher, mailSender, log)
	wantedSvc := service.NewWantedService(wantedRepo, log)
	messageSvc := service.NewMessageService(threadRepo, messageRepo, listingSvc, log)
	sweeper := service.NewSweeper(listingRepo, offerRepo, userRepo, listingCache, publisher, mailSender, log)

	mux := router.New(router.Handlers{
		Listings:  handler.NewListingHandler(listingSvc, orderSvc, trending, log),
		Offers:    handler.NewOfferHandler(offerSvc, log),
		Orders:    handler.NewOrderHandler(orderSvc, cfg.Payments.WebhookSecret, log),
		Wanted:    handler.NewWantedHandler(wantedSvc, log),
		Messages:  handler.NewMessageHandler(messageSvc, log),
		Favorites: handler.NewFavoriteHandler(favoriteRepo, listingSvc, log),
		Sweep:     handler.NewSweepHandler(sweeper, cfg.Listings.SweepSecret, log),
	}, cfg.Auth.JWTSecret, serviceName, log)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	return &App{
		cfg:            cfg,
		log:            log,
		server:         server,
		sweeper:        sweeper,
		mongoClient:    mongoClient,
		redisClient:    redisClient,
		natsConn:       natsConn,
		tracerProvider: tracerProvider,
	}, nil
}

// Run starts the HTTP server and the sweep loop, then blocks until SIGINT or
// SIGTERM.
func (a *App) Run() {
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go a.sweeper.Run(sweepCtx, a.cfg.Listings.SweepInterval)
	a.log.Infof("sweeper started, interval %s", a.cfg.Listings.SweepInterval)

	go func() {
		a.log.Infof("HTTP server listening on %s", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	a.log.Infof("received signal %v, shutting down", sig)

	stopSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Errorf("HTTP server shutdown error: %v", err)
	}
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("tracer shutdown error: %v", err)
		}
	}
	a.natsConn.Close()
	if err := a.redisClient.Close(); err != nil {
		a.log.Errorf("error closing Redis client: %v", err)
	}
	if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
		a.log.Errorf("error disconnecting from MongoDB: %v", err)
	}

	a.log.Info("shutdown complete")
}

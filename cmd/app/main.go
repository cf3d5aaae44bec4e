package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TemirB/shopping-cart/internal/application/service"
	"github.com/TemirB/shopping-cart/internal/config"
	"github.com/TemirB/shopping-cart/internal/database"
	"github.com/TemirB/shopping-cart/internal/domain"
	"github.com/TemirB/shopping-cart/internal/httpapi"
	"github.com/TemirB/shopping-cart/internal/jobs"
	"github.com/TemirB/shopping-cart/internal/kafka"
	"github.com/TemirB/shopping-cart/internal/observability"
	"github.com/TemirB/shopping-cart/internal/pkg/circuit"
	"github.com/TemirB/shopping-cart/internal/rates"
	"github.com/TemirB/shopping-cart/internal/receipt"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("service stopped with error", zap.Error(err))
	}
	logger.Info("service stopped")
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	metrics := observability.NewPrometheus()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Exchange rates
	cacheOpts := []rates.Option{
		rates.WithMetrics(metrics),
		rates.WithFetchTimeout(2 * cfg.Rates.Timeout),
	}
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		cacheOpts = append(cacheOpts, rates.WithShared(rates.NewRedisStore(rdb, cfg.Rates.BaseCurrency)))
		logger.Info("shared rate cache enabled", zap.String("addr", cfg.Redis.Addr))
	}
	source := rates.NewHTTPSource(cfg.Rates, circuit.New(cfg.Breaker), logger)
	rateCache, err := rates.New(cfg.Rates.CacheCap, source, logger, cacheOpts...)
	if err != nil {
		return err
	}

	// Jobs
	runner := jobs.NewRunner(store, cfg.Retry, logger.Named("jobs"), metrics)
	g, gctx := errgroup.WithContext(ctx)

	var queue *jobs.Queue
	switch cfg.Queue.Backend {
	case config.BackendKafka:
		if err := kafka.EnsureTopic(ctx, cfg.Kafka, logger); err != nil {
			return err
		}
		writer := kafka.NewWriter(cfg.Kafka)
		defer writer.Close()

		transport := jobs.NewKafkaTransport(writer, logger)
		if rdb != nil {
			// subscribe before consuming so no result for our own jobs is missed
			bus := jobs.NewRedisResults(rdb, cfg.Queue.ResultsChannel, logger.Named("results"))
			sub, err := bus.Subscribe(ctx)
			if err != nil {
				return err
			}
			queue = jobs.NewQueue(runner, transport, logger, jobs.WithResults(bus))
			g.Go(func() error { return sub.Serve(gctx, queue) })
		} else {
			logger.Warn("REDIS_ADDR not set, waiters resolve only for jobs this instance consumes; run a single consumer")
			queue = jobs.NewQueue(runner, transport, logger)
		}

		reader := kafka.NewReader(cfg.Kafka)
		defer reader.Close()
		consumer := kafka.NewConsumer(jobs.NewMessageHandler(queue, logger), reader, cfg.Queue.Workers, logger.Named("kafka"), metrics)
		g.Go(func() error {
			consumer.Start(gctx)
			return nil
		})
	default:
		local := jobs.NewLocalTransport(cfg.Queue.Workers, logger)
		defer local.Close()
		queue = jobs.NewQueue(runner, local, logger)
		local.Start(gctx, queue)
	}

	if len(cfg.Seed) == 0 {
		logger.Warn("market catalogue seed is empty, set MARKET_SEED before adding items")
	}

	cart := service.NewCart(
		store,
		queue,
		jobs.NewCoordinator(cfg.Queue.WaitTimeout),
		receipt.NewCalculator(rateCache),
		logger,
		metrics,
	)

	server := httpapi.New(cart, logger.Named("http"), metrics,
		httpapi.WithMetricsHandler(metrics.Handler()),
		httpapi.WithDefaultCurrency(cfg.DefaultCurrency),
	)
	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		return server.ListenAndServe(gctx, cfg.HTTPAddr)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (domain.CartStore, func(), error) {
	if cfg.StoreBackend != config.BackendPostgres {
		logger.Info("using in-memory store", zap.Int("seed_items", len(cfg.Seed)))
		return database.NewMemory(cfg.Seed), func() {}, nil
	}

	if cfg.Pg.Migrate {
		if err := database.Migrate(cfg.DSN(), logger); err != nil {
			return nil, nil, err
		}
	}
	pool, err := database.Connect(ctx, cfg.DSN(), logger)
	if err != nil {
		return nil, nil, err
	}
	repo := database.New(pool)
	if err := repo.Seed(ctx, cfg.Seed); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info("using postgres store", zap.String("host", cfg.Pg.Host), zap.String("db", cfg.Pg.DB))
	return repo, pool.Close, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if strings.EqualFold(cfg.Env, "development") {
		zcfg = zap.NewDevelopmentConfig()
	}
	if err := zcfg.Level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, err
	}
	return zcfg.Build()
}

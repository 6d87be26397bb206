package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"BrowserGame/internal/shared/gameconfig/unit"
	sharedb "BrowserGame/internal/shared/infrastructure/db"
	sharedmongo "BrowserGame/internal/shared/infrastructure/mongo"
	sharedsqlite "BrowserGame/internal/shared/infrastructure/sqlite"
	"BrowserGame/internal/shared/logs"
	"BrowserGame/internal/shared/serverconfig"
	"BrowserGame/internal/shared/transport/grpc"
	transporthttp "BrowserGame/internal/shared/transport/http"
	"BrowserGame/internal/shared/utils"
	"BrowserGame/internal/travel/actors"
	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/infra/persistence/mongodb"
	"BrowserGame/internal/travel/infra/persistence/mysql"
	"BrowserGame/internal/travel/infra/persistence/sqlite"
	"BrowserGame/internal/travel/interfaces"
	"BrowserGame/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// travelStore 是 sqlite/mysql 两种实现共同满足的存储面。
type travelStore interface {
	app.SettlementDirectory
	app.SettlementReader
	app.UnitOfWork
	app.TravelLedger
	app.OfferReader
	app.HistoryRecorder
	app.HistoryReader
}

type history interface {
	app.HistoryRecorder
	app.HistoryReader
}

func main() {
	serverconfig.Load(func() {
		if err := logs.SetLevel(serverconfig.Conf.Log.Level); err != nil {
			logs.Warn("reload log level failed", zap.String("level", serverconfig.Conf.Log.Level), zap.Error(err))
		}
	})
	defer logs.Sync()
	if err := logs.Init("travel", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))
	conf := serverconfig.Conf.Travel

	catalog := unit.Default()
	if conf.UnitCatalog != "" {
		c, err := unit.Load(conf.UnitCatalog)
		if err != nil {
			logs.Fatal("load unit catalog failed", zap.String("path", conf.UnitCatalog), zap.Error(err))
		}
		catalog = c
	}
	logs.Info("unit catalog loaded", zap.String("path", conf.UnitCatalog), zap.Strings("types", catalog.Types()))
	ids := utils.MustSnowflake(conf.NodeID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, conf)
	defer closeStore()

	var hist history = store
	if conf.History == serverconfig.HistoryMongo {
		mongoClient, err := sharedmongo.Open(serverconfig.Conf.MongoDB, logs.Logger())
		if err != nil {
			logs.Fatal("open mongodb failed", zap.Error(err))
		}
		defer func() {
			_ = mongoClient.Disconnect(context.Background())
		}()
		repo := mongodb.NewHistoryRepository(mongoClient.Database(serverconfig.Conf.MongoDB.Database), ids)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logs.Fatal("ensure mongodb indexes failed", zap.Error(err))
		}
		hist = repo
	}

	baseLogger := logx.NewZapLogger(logs.Logger())
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := app.NewMetrics(registry)

	stats := app.NewUnitStats(catalog)
	speed := app.Speed{SecondsPerBlock: conf.SecondsPerBlock, TradeSecondsPerBlock: conf.TradeSecondsPerBlock}
	now := time.Now

	launch := app.NewLaunchService(store, store, stats, speed, now, metrics, baseLogger)
	market := app.NewMarketService(store, store, store, speed, now, metrics, baseLogger)
	query := app.NewQueryService(store, store, store, hist, stats)
	battles := app.NewBattleResolver(store, hist, stats, now, metrics, baseLogger)
	trades := app.NewTradeResolver(store, hist, now, metrics, baseLogger)
	scheduler := app.NewScheduler(store, battles, trades, now, uuid.NewString, conf.ClaimLease, metrics, baseLogger)

	runtime := actors.NewRuntime(scheduler, conf.TickInterval, 0, baseLogger)

	httpServer := transporthttp.NewHttpServer(hostPort(serverconfig.Conf.HTTPServer.Host, serverconfig.Conf.HTTPServer.Port), nil, baseLogger)
	httpServer.Register(interfaces.New(launch, market, query, runtime, baseLogger))
	httpServer.Engine().GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	grpcAddr := hostPort(serverconfig.Conf.GRPCServer.Host, serverconfig.Conf.GRPCServer.Port)
	grpcServer, health := grpc.NewServer(baseLogger)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logs.Fatal("listen grpc failed", zap.String("addr", grpcAddr), zap.Error(err))
	}
	health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("travel http server start failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		logs.Info("收到退出信号，准备优雅退出")
		health.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		runtime.Shutdown()
		return nil
	})
	logs.Info("travel server started",
		zap.String("store", conf.Store),
		zap.String("history", conf.History),
		zap.Duration("tick_interval", conf.TickInterval),
		zap.String("grpc", grpcAddr),
	)
	if err := g.Wait(); err != nil {
		logs.Error("服务异常退出", zap.Error(err))
	}
}

func openStore(ctx context.Context, conf serverconfig.TravelConfig) (travelStore, func()) {
	switch conf.Store {
	case serverconfig.StoreMySQL:
		gdb, err := sharedb.Open(serverconfig.Conf.MySQL)
		if err != nil {
			logs.Fatal("open mysql failed", zap.Error(err))
		}
		store := mysql.NewStore(gdb)
		if serverconfig.Conf.MySQL.AutoMigrate {
			if err := store.AutoMigrate(ctx); err != nil {
				logs.Fatal("mysql auto migrate failed", zap.Error(err))
			}
		}
		return store, func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	case serverconfig.StoreSQLite:
		db, err := sharedsqlite.Open(serverconfig.Conf.SQLite)
		if err != nil {
			logs.Fatal("open sqlite failed", zap.Error(err))
		}
		store := sqlite.NewStore(db)
		if err := store.Migrate(ctx); err != nil {
			logs.Fatal("sqlite migrate failed", zap.Error(err))
		}
		return store, func() { _ = db.Close() }
	default:
		logs.Fatal("unknown travel store", zap.String("store", conf.Store))
		return nil, func() {}
	}
}

func hostPort(host string, port int) string {
	if host == "" {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, port)
}

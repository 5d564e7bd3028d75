package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/diewo77/sales-ledger/internal/config"
	"github.com/diewo77/sales-ledger/internal/db"
	"github.com/diewo77/sales-ledger/internal/services"
	"github.com/diewo77/sales-ledger/internal/storage"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()
	initLogger(cfg)
	defer func() {
		_ = zap.L().Sync()
	}()

	conn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database setup failed: %v", err)
	}
	if *migrateOnlyFlag {
		zap.S().Info("migrations completed; exiting as requested")
		return
	}

	stores := storage.New(conn)
	clients := services.NewClientService(stores.Clients)
	reconciler := services.NewReconciler(stores, clients, cfg.IntentStaleAfter)

	sched := cron.New()
	if _, err := sched.AddFunc(cfg.ReconcileSpec, func() {
		if err := reconciler.Run(context.Background()); err != nil {
			zap.S().Errorw("reconciliation sweep failed", "err", err)
		}
	}); err != nil {
		log.Fatalf("invalid RECONCILE_SPEC %q: %v", cfg.ReconcileSpec, err)
	}
	sched.Start()
	zap.S().Infow("reconciler scheduled", "spec", cfg.ReconcileSpec, "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	sched.Stop()
	zap.S().Info("shutting down")
}

func initLogger(cfg config.Config) {
	var zapConfig zap.Config
	if cfg.LogMode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.LogFileEnable {
		rotated := &lumberjack.Logger{
			Filename:   cfg.LogFilename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(rotated),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)
}

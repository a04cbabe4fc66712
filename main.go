package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/icodeforyou/solarcalc-go/config"
	"github.com/icodeforyou/solarcalc-go/database"
	"github.com/icodeforyou/solarcalc-go/estimate"
	"github.com/icodeforyou/solarcalc-go/logging"
	"github.com/icodeforyou/solarcalc-go/prices"
	"github.com/icodeforyou/solarcalc-go/publish"
	"github.com/icodeforyou/solarcalc-go/task"
	"github.com/icodeforyou/solarcalc-go/www"
	"github.com/lmittmann/tint"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("solarcalc is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	priceTable := prices.New(cnfg.Prices.GetDefault(), cnfg.Prices.Overrides)
	est := estimate.New(logger.With("module", "estimate"), priceTable, cnfg.Model.GetConstants())
	logger.Info("price table loaded",
		slog.Int("states", priceTable.Len()),
		slog.Float64("defaultPrice", cnfg.Prices.GetDefault()))

	if !cnfg.Mqtt.Enabled {
		logger.Debug("mqtt disabled, results will not be published")
	} else if isDevMode() {
		logger.Info("dev mode, skipping mqtt connection")
	} else {
		pub := publish.New(
			cnfg.Mqtt.Host,
			cnfg.Mqtt.Port,
			cnfg.Mqtt.Username,
			cnfg.Mqtt.Password,
			cnfg.Mqtt.GetTopic())
		if err := pub.Connect(); err != nil {
			panic(fmt.Sprintf("mqtt connection error: %v", err))
		}
		defer pub.Disconnect()
		est.OnResult = pub.Publish
	}

	tasks := task.NewTasks(db, cnfg)
	if isDevMode() {
		logger.Info("dev mode, skipping task scheduling")
	} else {
		if err := tasks.Run(); err != nil {
			panic(fmt.Sprintf("failed to schedule tasks: %v", err))
		}
		defer tasks.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server, err := www.StartServer(db, est, cnfg.Api, Version)
	if err != nil {
		panic(fmt.Sprintf("failed to start server: %v", err))
	}
	if err := server.Run(ctx); err != nil {
		exitWithError(logger, err)
	}
}

func isDevMode() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "development")
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	if syncer, ok := logger.Handler().(interface{ Sync() error }); ok {
		if syncErr := syncer.Sync(); syncErr != nil {
			logger.Error("failed to flush logger", slog.Any("error", syncErr))
		}
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}

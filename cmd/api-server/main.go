package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"orders-analytics/internal/api"
	"orders-analytics/internal/config"
	"orders-analytics/internal/gateway"
	"orders-analytics/internal/ingest"
	"orders-analytics/internal/runner"
)

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	configPath := flag.String("config", "config.yaml", "path to the config file")
	dbType := flag.String("db", "postgres", "gateway backend (postgres, mysql, or mongo)")
	addr := flag.String("addr", "", "override for the listen address")

	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		exitCode = 1
		return
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		exitCode = 1
		return
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	gateways := map[string]gateway.Gateway{
		"postgres": &gateway.PostgresGateway{},
		"mysql":    &gateway.MySQLGateway{},
		"mongo":    gateway.NewMongoGateway(cfg.Databases.MongoDB),
	}

	gw, ok := gateways[*dbType]
	if !ok {
		logger.Error("unsupported gateway backend", zap.String("db", *dbType))
		exitCode = 1
		return
	}

	var dsn string
	switch *dbType {
	case "postgres":
		dsn = cfg.Databases.Postgres
	case "mysql":
		dsn = cfg.Databases.MySQL
	case "mongo":
		dsn = cfg.Databases.Mongo
	}
	if err := gw.Connect(dsn); err != nil {
		logger.Error("failed to connect gateway", zap.String("db", *dbType), zap.Error(err))
		exitCode = 1
		return
	}
	defer gw.Close()

	loader := ingest.NewLoader(cfg.Data.Dir, cfg.Data.Sources, logger)
	pipeline := runner.New(loader, gw, logger)

	// Serve off the fact table of a fresh run.
	_, facts, err := pipeline.Run(context.Background())
	if err != nil {
		logger.Error("pipeline run failed", zap.Error(err))
		exitCode = 1
		return
	}

	server := api.NewServer(facts, pipeline, logger)
	logger.Info("api server listening", zap.String("addr", cfg.Server.Addr))
	if err := server.Router().Run(cfg.Server.Addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
		exitCode = 1
	}
}

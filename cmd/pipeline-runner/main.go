package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

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
	dataDir := flag.String("data", "", "override for the source data directory")

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
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
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

	report, _, err := runner.New(loader, gw, logger).Run(context.Background())
	if err != nil {
		logger.Error("pipeline run failed", zap.Error(err))
		exitCode = 1
		return
	}

	jsonOutput, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Error("failed to marshal report", zap.Error(err))
		exitCode = 1
		return
	}
	fmt.Println(string(jsonOutput))
}

package main

import (
	"fmt"
	"os"

	"finboard/internal/config"
	"finboard/internal/database"
	"finboard/internal/logger"
	"finboard/internal/notify"
	"finboard/internal/router"
	"finboard/internal/state"
)

// @title           Finboard API
// @version         1.0
// @description     Finboard is a personal finance dashboard: accounts, transactions, budgets, savings goals and a session-backed dashboard of derived views.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Pipeline API key

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	var publisher notify.Publisher = notify.Nop{}
	if appConfig.AMQPURL != "" {
		client, err := notify.NewClient(appConfig.AMQPURL, appConfig.AMQPExchange, appConfig.AMQPRoutingKey)
		if err != nil {
			return fmt.Errorf("failed to connect to message broker: %w", err)
		}
		publisher = client
		log.Infof("Publishing bill reminders to exchange %s", appConfig.AMQPExchange)
	}
	defer publisher.Close()

	engine := router.New(router.Dependencies{
		DB:        dbManager.DB(),
		Config:    appConfig,
		Publisher: publisher,
		Store:     state.NewRegistry(),
	})

	log.Infof("Starting Finboard backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return engine.Run(":" + appConfig.Port)
}

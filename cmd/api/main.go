package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"pokeswap/internal/adapter/api"
	"pokeswap/internal/adapter/api/handler"
	"pokeswap/internal/adapter/api/router"
	"pokeswap/internal/adapter/repository"
	"pokeswap/internal/domain/service"
	"pokeswap/internal/infrastructure/storage"
	"pokeswap/internal/infrastructure/websocket"
	"pokeswap/internal/usecase"
	"pokeswap/pkg/config"
	"pokeswap/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	userRepo, err := repository.NewFileUserRepository(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize user store: %v", err)
	}

	journal, err := repository.NewFileExchangeJournal(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize exchange journal: %v", err)
	}

	e := echo.New()

	// Card images go to GCS when a bucket is configured, otherwise to a
	// local directory served by this process.
	var uploader usecase.FileUploader
	if cfg.StorageBucket != "" {
		storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.GCSProject, cfg.GCSCredentials)
		if err != nil {
			log.Fatalf("Failed to initialize Cloud Storage: %v", err)
		}
		defer storageClient.Close()
		uploader = storageClient
	} else {
		localClient, err := storage.NewLocalStorageClient(cfg.UploadDir, cfg.BaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		uploader = localClient
		e.Static("/uploads", cfg.UploadDir)
	}

	nameService := service.NewCardNameService()
	locks := utils.NewKeyMutex()

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	authUseCase := usecase.NewAuthUseCase(userRepo)
	collectionUseCase := usecase.NewCollectionUseCase(userRepo, uploader, nameService, locks)
	shareUseCase := usecase.NewShareUseCase(userRepo)
	tradeUseCase := usecase.NewTradeUseCase(userRepo, journal, uploader, nameService, wsManager, locks)

	// Finish any exchange a crash left half-written before serving traffic.
	if err := tradeUseCase.Recover(ctx); err != nil {
		log.Fatalf("Failed to recover exchange journal: %v", err)
	}

	handler.Setup(authUseCase, collectionUseCase, tradeUseCase, shareUseCase)

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	wsHandler := handler.NewWebSocketHandler(wsManager)
	router.Setup(e, wsHandler)

	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

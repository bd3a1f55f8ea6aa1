package main

import (
	analysisService "TrattoriaGolang/internal/api/analysis/service"
	"TrattoriaGolang/internal/config"
	"TrattoriaGolang/pkg/gemini"
	"TrattoriaGolang/pkg/log"
	"TrattoriaGolang/pkg/menu"
	chatGPT "TrattoriaGolang/pkg/openai"
	"TrattoriaGolang/pkg/redis"
	websocketPkg "TrattoriaGolang/pkg/websocket"
	"github.com/joho/godotenv"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Fatalf("Error loading .env file: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	redisServer := redis.New()
	eventHub := websocketPkg.NewEventHub(logger)

	catalog, err := menu.New()
	if err != nil {
		logger.Fatalf("Error loading menu catalog: %v", err)
	}

	extractor, err := newExtractor(catalog)
	if err != nil {
		logger.Fatalf("Error creating transcript extractor: %v", err)
	}

	options := []config.ServerOption{
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithCatalog(catalog),
		config.WithExtractor(extractor),
		config.WithRedisServer(redisServer),
		config.WithEventHub(eventHub),
		config.WithMiddleware(),
		config.WithUtils(),
	}

	if os.Getenv("WHATSAPP_ENABLED") == "true" {
		options = append(options, config.WithWhatsappNotifier())
	}

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
}

func newExtractor(catalog *menu.Catalog) (analysisService.TranscriptExtractor, error) {
	if os.Getenv("EXTRACTION_PROVIDER") == "gemini" {
		return gemini.NewGeminiClient(catalog)
	}
	return chatGPT.NewChatGPT(catalog), nil
}

package config

import (
	"TrattoriaGolang/database/postgres"
	analysisHandler "TrattoriaGolang/internal/api/analysis/handler"
	analysisRepository "TrattoriaGolang/internal/api/analysis/repository"
	analysisService "TrattoriaGolang/internal/api/analysis/service"
	"TrattoriaGolang/internal/middleware"
	"TrattoriaGolang/pkg/memocache"
	"TrattoriaGolang/pkg/menu"
	"TrattoriaGolang/pkg/redis"
	"TrattoriaGolang/pkg/utils"
	websocketPkg "TrattoriaGolang/pkg/websocket"
	"TrattoriaGolang/pkg/whatsapp"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"os"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	catalog     *menu.Catalog
	extractor   analysisService.TranscriptExtractor
	redisServer redis.IRedis
	eventHub    websocketPkg.IEventHub
	notifier    whatsapp.INotifier
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.extractor == nil {
		return nil, fmt.Errorf("transcript extractor is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithCatalog(catalog *menu.Catalog) ServerOption {
	return func(s *Server) error {
		s.catalog = catalog
		return nil
	}
}

func WithExtractor(extractor analysisService.TranscriptExtractor) ServerOption {
	return func(s *Server) error {
		s.extractor = extractor
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithEventHub(eventHub websocketPkg.IEventHub) ServerOption {
	return func(s *Server) error {
		s.eventHub = eventHub
		return nil
	}
}

// WithWhatsappNotifier is opt-in: the notifier requires a paired device,
// and the service runs fine without one.
func WithWhatsappNotifier() ServerOption {
	return func(s *Server) error {
		client, err := whatsapp.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize WhatsApp notifier: %v", err)
			}
			return fmt.Errorf("failed to create WhatsApp notifier: %w", err)
		}
		s.notifier = client
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Analysis Domain
	analysisRepo := analysisRepository.New(s.db, s.log)
	analysisServices := analysisService.NewAnalysisService(
		s.log,
		analysisRepo,
		s.extractor,
		s.catalog,
		memocache.New(),
		s.redisServer,
		s.eventHub,
		s.notifier,
		s.utils,
	)
	analysisHandlers := analysisHandler.New(s.log, s.validator, s.middleware, analysisServices, s.eventHub)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, analysisHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.notifier != nil {
			s.notifier.Disconnect()
		}
		return err
	}

	return nil
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}

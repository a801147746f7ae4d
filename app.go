package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"devtinder/internal/config"
	"devtinder/internal/database"
	"devtinder/internal/handlers"
	"devtinder/internal/middleware"
	"devtinder/internal/realtime"
	"devtinder/internal/repositories"
	"devtinder/internal/services"
	"devtinder/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// App owns every long-lived component of the server.
type App struct {
	Config      config.Config
	HTTP        *fiber.App
	WS          *http.Server
	Hub         *realtime.Hub
	DB          *gorm.DB         // nil with the memory driver
	MQ          *rabbitmq.Client // nil when events are disabled
	AuthService *services.AuthService
}

type repos struct {
	users         repositories.UserRepository
	requests      repositories.ConnectionRequestRepository
	conversations repositories.ConversationRepository
}

// NewApp builds the storage layer, services, HTTP routes and the websocket gateway from cfg.
func NewApp(cfg config.Config) (*App, error) {
	a := &App{Config: cfg}

	// --- Storage ---
	var r repos
	if cfg.DBDriver == database.DriverMemory {
		log.Println("Using in-memory storage")
		r = repos{
			users:         repositories.NewMockUserRepository(),
			requests:      repositories.NewMockConnectionRequestRepository(),
			conversations: repositories.NewMockConversationRepository(),
		}
	} else {
		db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, err
		}
		a.DB = db
		r = repos{
			users:         repositories.NewGORMUserRepository(db),
			requests:      repositories.NewGORMConnectionRequestRepository(db),
			conversations: repositories.NewGORMConversationRepository(db),
		}
	}

	// --- Events ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Exchange: cfg.RabbitMQExchange, Queue: cfg.RabbitMQQueue})
		if err != nil {
			log.Printf("Warning: events disabled, RabbitMQ unavailable: %v", err)
		} else {
			a.MQ = mq
			events = mq
		}
	} else {
		log.Println("RABBITMQ_URL is not set. Domain events are disabled.")
	}

	// --- Services ---
	a.AuthService = services.NewAuthService(r.users, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost, events)
	profileService := services.NewProfileService(r.users, cfg.BcryptCost)
	connectionService := services.NewConnectionService(r.users, r.requests, events)
	feedService := services.NewFeedService(r.users, r.requests)
	chatService := services.NewChatService(r.users, r.conversations, connectionService, events)

	// --- HTTP ---
	a.HTTP = fiber.New(fiber.Config{AppName: "devtinder"})
	a.HTTP.Use(recover.New())
	a.HTTP.Use(logger.New()) // Request logger
	a.HTTP.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	a.HTTP.Get("/health", a.handleHealth)

	auth := middleware.AuthRequired(a.AuthService)
	handlers.NewAuthHandler(a.AuthService).RegisterRoutes(a.HTTP)
	handlers.NewProfileHandler(profileService).RegisterRoutes(a.HTTP, auth)
	handlers.NewRequestHandler(connectionService).RegisterRoutes(a.HTTP, auth)
	handlers.NewUserHandler(connectionService, feedService).RegisterRoutes(a.HTTP, auth)
	handlers.NewChatHandler(chatService).RegisterRoutes(a.HTTP, auth)

	// --- Realtime ---
	a.Hub = realtime.NewHub()
	mux := http.NewServeMux()
	mux.Handle("/ws", realtime.NewGateway(a.Hub, a.AuthService, chatService, cfg.AllowedOrigins))
	a.WS = &http.Server{
		Addr:              cfg.WSPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PATCH,OPTIONS",
		AllowCredentials: true,
	}
	for _, o := range origins {
		if o == "*" {
			// Credentials cannot be combined with a wildcard origin.
			c.AllowCredentials = false
		}
	}
	return c
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	mq := "disabled"
	if a.MQ != nil {
		mq = "connected"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"rabbitmq": mq,
	})
}

// StartConsumer starts auditing domain events when RabbitMQ is configured.
func (a *App) StartConsumer() {
	if a.MQ == nil {
		return
	}
	log.Println("Starting RabbitMQ consumer for domain events...")
	if err := a.MQ.ConsumeEvents(rabbitmq.AuditEvent); err != nil {
		log.Printf("Failed to start RabbitMQ consumer: %v", err)
	}
}

// Shutdown stops the listeners, disconnects websocket clients and releases the broker and
// database connections.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.HTTP.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
	}
	if err := a.WS.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("websocket server shutdown: %w", err))
	}
	// Hijacked websocket connections are not tracked by http.Server.
	a.Hub.Close()
	if a.MQ != nil {
		if err := a.MQ.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

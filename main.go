package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"aura/internal/config"
	"aura/internal/handlers"
	"aura/internal/models"
	"aura/internal/repositories"
	"aura/internal/services"
	"aura/pkg/googleauth"
	"aura/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.EmailVerification{},
		&models.RefreshToken{},
		&models.Product{},
		&models.Order{},
		&models.Payment{},
		&models.Content{},
	); err != nil {
		log.Fatalf("Failed to migrate database schema: %v", err)
	}

	// --- RabbitMQ ---
	// Outbound mail and order events ride the broker. The app still serves
	// without it; publishers skip when the client is nil.
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, mail and order events disabled: %v", err)
		mqClient = nil
	} else {
		defer mqClient.Close()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	adminRepo := repositories.NewGORMAdminRepository(db)
	tokenRepo := repositories.NewGORMTokenRepository(db)
	verificationRepo := repositories.NewGORMVerificationRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	contentRepo := repositories.NewGORMContentRepository(db)

	// --- Services ---
	tokenService := services.NewTokenService(tokenRepo, cfg.JWTSecret, cfg.RefreshTokenSecret)
	verificationService := services.NewVerificationService(verificationRepo)
	authService := services.NewAuthService(userRepo, adminRepo, verificationService, tokenService, mqClient, cfg.EmailUsername)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, mqClient)
	adminService := services.NewAdminService(userRepo, adminRepo, productRepo)
	userService := services.NewUserService(userRepo, orderRepo)
	contentService := services.NewContentService(contentRepo)

	googleVerifier := googleauth.NewVerifier(googleauth.Config{ClientID: cfg.GoogleClientID})

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, tokenService)
	productHandler := handlers.NewProductHandler(productService)
	adminHandler := handlers.NewAdminHandler(adminService, tokenService)
	orderHandler := handlers.NewOrderHandler(orderService)
	userHandler := handlers.NewUserHandler(userService, tokenService)
	contentHandler := handlers.NewContentHandler(contentService, authService, tokenService, googleVerifier)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	authHandler.RegisterRoutes(app)
	productHandler.RegisterRoutes(app)
	adminHandler.RegisterRoutes(app)
	orderHandler.RegisterRoutes(app)
	userHandler.RegisterRoutes(app)
	contentHandler.RegisterRoutes(app)

	app.Get("/healthcheck", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order-event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting order-event consumer...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start order-event consumer: %v", consumerErr)
			}
		}()
	}

	// --- Periodic cleanup ---
	// Expired refresh tokens and verification codes, plus user rows whose
	// signup was never completed, are removed on a fixed interval.
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := tokenService.CleanupExpired(); err != nil {
					log.Printf("Cleanup: expired refresh tokens: %v", err)
				}
				if err := verificationService.CleanupExpired(); err != nil {
					log.Printf("Cleanup: expired verification codes: %v", err)
				}
				if err := authService.CleanupTempUsers(); err != nil {
					log.Printf("Cleanup: stale temp users: %v", err)
				}
			case <-cleanupDone:
				return
			}
		}
	}()

	// --- Start HTTP server ---
	log.Printf("Starting server on %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	close(cleanupDone)

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

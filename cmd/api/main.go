package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"eventspace/internal/config"
	"eventspace/internal/database"
	"eventspace/internal/middleware"
	"eventspace/internal/modules/auth"
	"eventspace/internal/modules/booking"
	"eventspace/internal/modules/catalog"
	"eventspace/internal/modules/notification"
	jwtsvc "eventspace/internal/pkg/jwt"
	"eventspace/internal/pkg/upload"
	"eventspace/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	spaceRepo := repository.NewSpaceRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	uploads, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatal(err)
	}

	var mailer notification.Mailer = notification.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = notification.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}

	hub := notification.NewHub()
	defer hub.Close()

	notificationService := notification.NewService(notificationRepo, userRepo, spaceRepo, hub, mailer, cfg.AdminEmail)
	notificationHandler := notification.NewHandler(notificationService, hub)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(spaceRepo, uploads)
	catalogHandler := catalog.NewHandler(catalogService, uploads)

	bookingService := booking.NewService(bookingRepo, spaceRepo, notificationService, cfg.Currency)
	bookingHandler := booking.NewHandler(bookingService)

	if cfg.AppEnv == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())
	r.Static("/static", cfg.UploadDir)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.AuthRequired(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			owner := protected.Group("/")
			owner.Use(middleware.OwnerOnly())
			{
				catalogHandler.RegisterOwnerRoutes(owner)
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rokibulparves/sobol/internal/config"
	"github.com/rokibulparves/sobol/internal/entitlement"
	"github.com/rokibulparves/sobol/internal/gateway/sslcommerz"
	"github.com/rokibulparves/sobol/internal/handler"
	"github.com/rokibulparves/sobol/internal/service"
	"github.com/rokibulparves/sobol/internal/storage/postgres"
	"github.com/rokibulparves/sobol/internal/storage/s3"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := postgres.RunMigrations(context.Background(), cfg.Database.DSN()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	db, err := postgres.InitDB(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	media, err := s3.NewMediaStorage(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init media storage")
	}

	gateway := sslcommerz.NewClient(cfg.Gateway)
	gate := entitlement.NewGate(cfg.Entitlement.FreeDayLimit)

	userService := service.NewUserService(db, cfg.Auth)
	paymentService := service.NewPaymentService(gateway, db, db,
		cfg.Server.BaseURL, cfg.Gateway.Currency, log)
	trainingService := service.NewTrainingService(db, db, db, media, gate)
	uploadService := service.NewUploadService(db, media)

	h := handler.NewHandler(userService, paymentService, trainingService, uploadService, log)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error().Interface("panic", recovered).Msg("panic recovered")
		c.AbortWithStatusJSON(500, gin.H{"error": "internal server error"})
	}))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}

	profile := r.Group("/profile")
	{
		profile.Use(h.AuthMiddleware())
		profile.GET("/", h.GetProfile)
	}

	// Payment: initiation plus the gateway's redirect and IPN endpoints. The
	// callbacks are posted by the gateway (or the embedded browser), so they
	// carry no bearer token.
	payment := r.Group("/api/payment")
	{
		payment.POST("/initiate", h.InitiatePayment)
		payment.POST("/success", h.PaymentSuccess)
		payment.POST("/fail", h.PaymentFail)
		payment.POST("/cancel", h.PaymentCancel)
		payment.POST("/ipn", h.PaymentIPN)
		payment.GET("/:tran_id", h.AuthMiddleware(), h.GetPayment)
	}

	training := r.Group("/training")
	{
		training.Use(h.AuthMiddleware())
		training.GET("/today", h.Today)
		training.GET("/day/:day", h.Day)
		training.POST("/complete", h.CompleteDay)
	}

	admin := r.Group("/admin")
	{
		admin.Use(h.AuthMiddleware())
		admin.POST("/videos/:day/poster", h.UploadPoster)
	}

	r.GET("/health", h.Health)

	log.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

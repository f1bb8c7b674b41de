package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/petmily/vetcare-api/internal/cache"
	"github.com/petmily/vetcare-api/internal/config"
	"github.com/petmily/vetcare-api/internal/email"
	"github.com/petmily/vetcare-api/internal/handler"
	adminHandler "github.com/petmily/vetcare-api/internal/handler/admin"
	authHandler "github.com/petmily/vetcare-api/internal/handler/auth"
	communityHandler "github.com/petmily/vetcare-api/internal/handler/community"
	hospitalHandler "github.com/petmily/vetcare-api/internal/handler/hospital"
	reportHandler "github.com/petmily/vetcare-api/internal/handler/report"
	reservationHandler "github.com/petmily/vetcare-api/internal/handler/reservation"
	reviewHandler "github.com/petmily/vetcare-api/internal/handler/review"
	"github.com/petmily/vetcare-api/internal/middleware"
	"github.com/petmily/vetcare-api/internal/repository/postgres"
	"github.com/petmily/vetcare-api/internal/router"
	adminService "github.com/petmily/vetcare-api/internal/service/admin"
	authService "github.com/petmily/vetcare-api/internal/service/auth"
	"github.com/petmily/vetcare-api/internal/service/authz"
	communityService "github.com/petmily/vetcare-api/internal/service/community"
	hospitalService "github.com/petmily/vetcare-api/internal/service/hospital"
	reportService "github.com/petmily/vetcare-api/internal/service/report"
	reservationService "github.com/petmily/vetcare-api/internal/service/reservation"
	reviewService "github.com/petmily/vetcare-api/internal/service/review"
	"github.com/petmily/vetcare-api/pkg/auth"
	"github.com/petmily/vetcare-api/pkg/security"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	statsCache, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, stats caching disabled")
	}
	defer statsCache.Close()

	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	hospitalRepo := postgres.NewHospitalRepository(base)
	reservationRepo := postgres.NewReservationRepository(base)
	reviewRepo := postgres.NewReviewRepository(base)
	communityRepo := postgres.NewCommunityRepository(base)
	reportRepo := postgres.NewReportRepository(base)
	auditRepo := postgres.NewAuditRepository(base)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	emailSvc := email.NewService(cfg.SMTP)
	policy := authz.NewPolicy(hospitalRepo)

	authSvc := authService.NewService(userRepo, tokens, hasher, emailSvc)
	hospitalSvc := hospitalService.NewService(hospitalRepo, policy, statsCache)
	reservationSvc := reservationService.NewService(reservationRepo, hospitalRepo, userRepo, policy, statsCache, emailSvc)
	reviewSvc := reviewService.NewService(reviewRepo, hospitalRepo, policy, statsCache)
	communitySvc := communityService.NewService(communityRepo, policy)
	reportSvc := reportService.NewService(reportRepo, communityRepo, auditRepo, policy)
	adminSvc := adminService.NewService(userRepo, auditRepo, policy)

	authMW := middleware.NewAuthMiddleware(tokens)
	health := handler.NewHealth(db)

	r := router.New(health, router.Config{
		RateLimit: rate.Limit(cfg.Server.RateLimitRPS),
		RateBurst: cfg.Server.RateLimitBurst,
		CORS:      middleware.DefaultCORSConfig(),
	},
		authHandler.NewHandler(authSvc),
		hospitalHandler.NewHandler(hospitalSvc, authMW),
		reservationHandler.NewHandler(reservationSvc, authMW),
		reviewHandler.NewHandler(reviewSvc, authMW),
		communityHandler.NewHandler(communitySvc, authMW),
		reportHandler.NewHandler(reportSvc, authMW),
		adminHandler.NewHandler(adminSvc, authMW),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

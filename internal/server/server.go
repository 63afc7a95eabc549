package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"

	"unihub/internal/database"
	"unihub/internal/repositories"
	"unihub/internal/services"
	"unihub/internal/storage"
)

type Server struct {
	port               int
	httpServer         *http.Server
	db                 database.Service
	blobStore          storage.BlobStore
	authService        services.AuthService
	userService        services.UserService
	jobService         services.JobService
	applicationService services.ApplicationService
	productService     services.ProductService
	reviewService      services.ReviewService
	wishlistService    services.WishlistService
}

func NewServer() *Server {
	portStr := os.Getenv("PORT")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Warn().Str("port", portStr).Msg("Invalid or missing PORT environment variable. Using default 8080.")
		port = 8080
	}

	db := database.New()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database indexes")
	}

	blobStore, err := storage.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOtpRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	productRepo := repositories.NewProductRepository(db)
	interestRepo := repositories.NewInterestRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	wishlistRepo := repositories.NewWishlistRepository(db)

	notifier := services.NewNotifier(services.NewEmailService())

	s := &Server{
		port:               port,
		db:                 db,
		blobStore:          blobStore,
		authService:        services.NewAuthService(userRepo, otpRepo, refreshTokenRepo, notifier),
		userService:        services.NewUserService(userRepo, notifier),
		jobService:         services.NewJobService(userRepo, jobRepo, applicationRepo),
		applicationService: services.NewApplicationService(userRepo, jobRepo, applicationRepo, notifier),
		productService:     services.NewProductService(userRepo, productRepo, interestRepo, notifier),
		reviewService:      services.NewReviewService(userRepo, jobRepo, reviewRepo),
		wishlistService:    services.NewWishlistService(userRepo, productRepo, wishlistRepo),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	if err := s.db.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	}

	log.Info().Msg("Server exiting")
	done <- true
}

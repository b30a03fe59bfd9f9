package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/veloretail/bulkcart-backend/api/controllers"
	"github.com/veloretail/bulkcart-backend/api/routes"
	"github.com/veloretail/bulkcart-backend/internal/auth"
	"github.com/veloretail/bulkcart-backend/internal/cart"
	"github.com/veloretail/bulkcart-backend/internal/products"
	"github.com/veloretail/bulkcart-backend/internal/users"
	"github.com/veloretail/bulkcart-backend/pkg/auth/session"
	"github.com/veloretail/bulkcart-backend/pkg/config"
	"github.com/veloretail/bulkcart-backend/pkg/db"
	"github.com/veloretail/bulkcart-backend/pkg/logger"
	"github.com/veloretail/bulkcart-backend/pkg/metrics"
	"github.com/veloretail/bulkcart-backend/pkg/migrate"
	"github.com/veloretail/bulkcart-backend/pkg/redis"
	"github.com/veloretail/bulkcart-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	codec, err := security.NewPayloadCodec(cfg.Payload.Key)
	if err != nil {
		logg.Error(context.Background(), "failed to create payload codec", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	otpService, err := auth.NewOTPService(auth.OTPServiceParams{
		Store:      redisClient,
		Logger:     logg,
		OTPConfig:  cfg.OTP,
		RateLimits: cfg.AuthRateLimit,
		DevEcho:    cfg.App.IsDev(),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create otp service", err)
		os.Exit(1)
	}

	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), productRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	router := routes.New(routes.Params{
		Config:   cfg,
		Logger:   logg,
		Sessions: sessionManager,
		Redis:    redisClient,
		Codec:    codec,
		Metrics:  httpMetrics,
		Health:   controllers.NewHealthController(dbClient, redisClient, logg),
		Auth:     controllers.NewAuthController(authService, logg),
		OTP:      controllers.NewOTPController(otpService, logg),
		Products: controllers.NewProductController(productService, logg),
		Cart:     controllers.NewCartController(cartService, logg),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		shutdownErr := server.Shutdown(shutdownCtx)
		serveErr := <-errCh
		if serveErr == http.ErrServerClosed {
			serveErr = nil
		}
		if err := multierr.Append(shutdownErr, serveErr); err != nil {
			logg.Error(ctx, "shutdown error", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "api server stopped")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myhabits/config"
	"myhabits/handler"
	"myhabits/middleware"
	"myhabits/repository"
	"myhabits/services"
	"myhabits/usecase"
	"myhabits/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxRequestBodyBytes = 64 * 1024

func main() {
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	utils.InitValidator()

	tokens, err := services.NewTokenService()
	if err != nil {
		log.Fatalf("Token service init failed: %v", err)
	}

	ctx := context.Background()

	dbCfg := config.LoadDatabaseConfig()
	mongoClient, err := config.NewMongoClient(ctx, dbCfg)
	if err != nil {
		log.Fatalf("MongoDB init failed: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("MongoDB disconnect failed: %v", err)
		}
	}()

	if err := repository.SetupIndexes(mongoClient, dbCfg); err != nil {
		log.Fatalf("Index setup failed: %v", err)
	}

	redisCfg := config.LoadRedisConfig()
	redisClient, err := config.NewRedisClient(ctx, redisCfg)
	if err != nil {
		log.Fatalf("Redis init failed: %v", err)
	}

	// Repositories
	habitsRepo := repository.NewHabitsRepo(mongoClient, dbCfg)
	completionsRepo := repository.NewCompletionsRepo(mongoClient, dbCfg)
	usersRepo := repository.NewUsersRepo(mongoClient, dbCfg)
	sessionsRepo := repository.NewSessionsRepo(mongoClient, dbCfg)

	// Services
	var reportCache usecase.ReportCache
	if redisClient != nil {
		reportCache = services.NewRedisReportCache(redisClient, redisCfg.CacheTTL)
	}
	habitsService := usecase.NewHabitsService(habitsRepo, completionsRepo)
	reportService := usecase.NewReportService(habitsRepo, completionsRepo)
	refresher := usecase.NewReportRefresher(reportService, reportCache)

	// Handlers
	authHandler := handler.NewAuthHandler(usersRepo, sessionsRepo, tokens)
	twoFactorHandler := handler.NewTwoFactorHandler(usersRepo)
	habitsHandler := handler.NewHabitsHandler(habitsService, refresher)
	reportHandler := handler.NewReportHandler(refresher)
	healthHandler := handler.NewHealthHandler(mongoClient)

	router := setupRouter(tokens, authHandler, twoFactorHandler, habitsHandler, reportHandler, healthHandler)

	port := utils.GetEnvAsString("PORT", "8080")
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	sig := <-signalChan
	log.Printf("Caught signal %s, shutting down", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server shutdown complete")
}

func setupRouter(
	tokens *services.TokenService,
	authHandler *handler.AuthHandler,
	twoFactorHandler *handler.TwoFactorHandler,
	habitsHandler *handler.HabitsHandler,
	reportHandler *handler.ReportHandler,
	healthHandler *handler.HealthHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestSizeLimiter(maxRequestBodyBytes))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/api")
	{
		public.GET("/health", healthHandler.Health)

		auth := public.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/guest", authHandler.RegisterGuest)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", authHandler.Profile)
			user.POST("/logout", authHandler.Logout)
			user.POST("/2fa/enable", twoFactorHandler.Enable)
			user.POST("/2fa/verify", twoFactorHandler.Verify)
		}

		habits := protected.Group("/habits")
		{
			habits.GET("/", habitsHandler.ListHabits)
			habits.POST("/", habitsHandler.CreateHabit)
			habits.POST("/:id/complete", habitsHandler.CompleteHabit)
			habits.DELETE("/:id", habitsHandler.DeleteHabit)
		}

		reports := protected.Group("/reports")
		reports.Use(middleware.CacheControlMiddleware(60))
		{
			reports.GET("/weekly", reportHandler.GetWeeklyReport)
		}
	}

	return router
}

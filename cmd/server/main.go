package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avergnaud/patrimonia/api/internal/config"
	"github.com/avergnaud/patrimonia/api/internal/database"
	"github.com/avergnaud/patrimonia/api/internal/handlers"
	"github.com/avergnaud/patrimonia/api/internal/logger"
	"github.com/avergnaud/patrimonia/api/internal/middleware"
	"github.com/avergnaud/patrimonia/api/internal/repository"
	"github.com/avergnaud/patrimonia/api/internal/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting Patrimonia API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: newRouter(cfg, log, db),
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Block until SIGINT/SIGTERM, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

// newRouter wires the middleware chain, the service layer and the route
// table.
func newRouter(cfg *config.Config, log *logger.Logger, db *database.Database) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	portfolioRepo := repository.NewPortfolioRepository(db)
	portfolioService := services.NewPortfolioService(portfolioRepo, log)
	fiscalService := services.NewFiscalService(portfolioRepo, log)
	simulationService := services.NewSimulationService(portfolioRepo, cfg.Engine, log)

	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	fiscalHandler := handlers.NewFiscalHandler(fiscalService)
	simulationHandler := handlers.NewSimulationHandler(simulationService)

	v1 := router.Group("/api/v1")
	{
		portfolio := v1.Group("/portfolio")
		{
			portfolio.GET("/kpis", portfolioHandler.PortfolioKPIs)
		}

		properties := v1.Group("/properties")
		{
			properties.GET("/compare", portfolioHandler.CompareProperties)
			properties.GET("/:id/kpis", portfolioHandler.PropertyKPIs)
		}

		tax := v1.Group("/tax")
		{
			tax.POST("/calculate", fiscalHandler.Calculate)
			tax.POST("/compare", fiscalHandler.Compare)
		}

		scenarios := v1.Group("/scenarios")
		{
			scenarios.POST("/simulate", simulationHandler.Simulate)
		}

		loans := v1.Group("/loans")
		{
			loans.POST("/refinance", simulationHandler.Refinance)
		}
	}

	return router
}

package main

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	catalogapi "github.com/mvcampos/papelaria-backend/internal/catalog/api"
	catalogrepo "github.com/mvcampos/papelaria-backend/internal/catalog/repository"
	catalogservice "github.com/mvcampos/papelaria-backend/internal/catalog/service"
	checkoutapi "github.com/mvcampos/papelaria-backend/internal/checkout/api"
	checkoutrepo "github.com/mvcampos/papelaria-backend/internal/checkout/repository"
	checkoutservice "github.com/mvcampos/papelaria-backend/internal/checkout/service"
	"github.com/mvcampos/papelaria-backend/internal/platform/config"
	"github.com/mvcampos/papelaria-backend/internal/platform/database"
	"github.com/mvcampos/papelaria-backend/internal/platform/logger"
)

func main() {
	// Load Config
	dbCfg := config.LoadStoreDBConfig()
	serverCfg := config.LoadServerConfig("8080")
	storeCfg := config.LoadStoreConfig()

	logger.Info("Starting Store Service...")

	// Setup Database
	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, storeCfg.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Setup Dependencies
	productRepository := catalogrepo.NewPostgresProductRepository(db)
	productService := catalogservice.NewProductService(productRepository)
	productHandler := catalogapi.NewProductHandler(productService)

	checkoutRepository := checkoutrepo.NewPostgresCheckoutRepository(db)
	checkoutService := checkoutservice.NewCheckoutService(checkoutRepository)
	checkoutHandler := checkoutapi.NewCheckoutHandler(checkoutService)

	stockWatcher := catalogservice.NewStockWatcher(productRepository, storeCfg.LowStockThreshold)
	stockWatcher.Start()
	defer stockWatcher.Stop()

	// Setup Gin Router
	router := gin.Default()
	router.Use(corsMiddleware(storeCfg.CORSAllowOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	checkoutHandler.RegisterRoutes(apiV1)

	logger.Info("Store Service running on port " + serverCfg.Port)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run Store Service server", errSrv)
	}
}

func corsMiddleware(allowOrigins string) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	if allowOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(allowOrigins, ",")
	}
	return cors.New(corsCfg)
}

package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/production-tracker-api/config"
	"github.com/kendall-kelly/production-tracker-api/controllers"
	"github.com/kendall-kelly/production-tracker-api/middleware"
	"github.com/kendall-kelly/production-tracker-api/models"
	"github.com/kendall-kelly/production-tracker-api/services"
	"github.com/kendall-kelly/production-tracker-api/utils"
)

func main() {
	log.Println("Starting Production Tracker API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	db.Logger = db.Logger.LogMode(cfg.SQLLogLevel())

	// Auto-migrate database models
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Product images go to S3 when a bucket is configured, local disk otherwise
	if _, err := services.ConfigureImageService(context.Background(), cfg); err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}
	if cfg.HasS3() {
		log.Printf("Storing product images in S3 bucket %s", cfg.AWSS3Bucket)
	} else {
		log.Printf("AWS_S3_BUCKET not set, storing product images in %s", utils.UploadDir)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, middleware.EnsureValidToken(cfg))

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter wires every route behind auth, which validates bearer tokens
func setupRouter(cfg *config.Config, auth gin.HandlerFunc) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(cors.New(corsConfig(cfg)))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		protected := v1.Group("")
		protected.Use(auth)
		{
			protected.GET("/me", controllers.GetMyProfile)
			protected.GET("/uploads/:filename", controllers.GetUploadedImage)

			orders := protected.Group("/orders")
			{
				orders.GET("", controllers.ListOrders)
				orders.POST("", controllers.CreateOrder)
				orders.GET("/:id", controllers.GetOrder)
				orders.PUT("/:id", controllers.UpdateOrder)
				orders.PUT("/:id/status", controllers.UpdateOrderStatus)
				orders.DELETE("/:id", middleware.RequireScope(middleware.ScopeDeleteOrders), controllers.DeleteOrder)
			}

			products := protected.Group("/products")
			{
				products.GET("", controllers.ListProducts)
				products.GET("/:id", controllers.GetProduct)
				products.POST("", middleware.RequireScope(middleware.ScopeWriteCatalog), controllers.CreateProduct)
				products.PUT("/:id", middleware.RequireScope(middleware.ScopeWriteCatalog), controllers.UpdateProduct)
				products.DELETE("/:id", middleware.RequireScope(middleware.ScopeWriteCatalog), controllers.DeleteProduct)
				products.POST("/:id/image", middleware.RequireScope(middleware.ScopeWriteCatalog), controllers.UploadProductImage)
			}

			operators := protected.Group("/operators")
			{
				operators.GET("", controllers.ListOperators)
				operators.POST("", controllers.CreateOperator)
				operators.GET("/:id", controllers.GetOperator)
				operators.PUT("/:id", controllers.UpdateOperator)
				operators.DELETE("/:id", controllers.DeleteOperator)
				operators.GET("/:id/workload", controllers.GetOperatorWorkload)
			}

			activities := protected.Group("/activities")
			{
				activities.GET("", controllers.ListActivities)
				activities.GET("/order/:orderId", controllers.ListActivitiesByOrder)
				activities.GET("/operator/:operatorId", controllers.ListActivitiesByOperator)
				activities.GET("/:id", controllers.GetActivity)
				activities.PUT("/:id", controllers.UpdateActivity)
				activities.PUT("/:id/assign", controllers.AssignActivity)
				activities.PUT("/:id/status", controllers.UpdateActivityStatus)
			}
		}
	}

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	corsCfg.ExposeHeaders = []string{"X-Request-ID"}
	corsCfg.MaxAge = 12 * time.Hour

	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	return corsCfg
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Production Tracker API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database is not initialized",
			},
		})
		return
	}

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}

package api

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/trajectory-mining-go/internal/config"
	"github.com/jengzang/trajectory-mining-go/internal/handler"
	"github.com/jengzang/trajectory-mining-go/internal/middleware"
	"github.com/jengzang/trajectory-mining-go/internal/repository"
	"github.com/jengzang/trajectory-mining-go/internal/service"
	"github.com/jengzang/trajectory-mining-go/internal/staypoint"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *sql.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Trajectory mining API is running",
		})
	})

	trajectoryRepo := repository.NewTrajectoryRepository(db)
	stayRepo := repository.NewStayPointRepository(db)

	trajectoryHandler := handler.NewTrajectoryHandler(service.NewTrajectoryService(trajectoryRepo))
	stayHandler := handler.NewStayPointHandler(service.NewStayPointService(trajectoryRepo, stayRepo, staypoint.Options{
		DistanceThreshold: cfg.DistanceThreshold,
		TimeThreshold:     cfg.TimeThreshold,
	}))
	gridHandler := handler.NewGridHandler(service.NewGridService())

	auth := middleware.Auth(cfg.JWTSecret)

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)))
	{
		// 停留点检测
		staypoints := api.Group("/staypoints")
		{
			staypoints.POST("/detect", stayHandler.Detect)
			staypoints.POST("/spans", stayHandler.Spans)
		}

		// 轨迹存储
		trajectories := api.Group("/trajectories")
		{
			trajectories.POST("", auth, trajectoryHandler.Create)
			trajectories.GET("/:id/points", trajectoryHandler.GetPoints)
			trajectories.POST("/:id/detect", auth, stayHandler.DetectTrajectory)
		}

		runs := api.Group("/runs")
		{
			runs.GET("/:runId/staypoints", stayHandler.GetStayPoints)
			runs.GET("/:runId/summary", stayHandler.GetSummary)
		}

		// 网格与几何
		api.POST("/grid/counts", gridHandler.CountOnGrid)
		api.POST("/geo/contains", gridHandler.Contains)
	}

	return r
}

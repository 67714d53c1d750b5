package app

import (
	"path_advisor_backend/docs"
	"path_advisor_backend/internal/config"
	"path_advisor_backend/internal/middleware"
	"path_advisor_backend/internal/model"
	"path_advisor_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/me", c.auth.Me)

		// 画像
		authGroup.POST("/profiles", c.profile.Create)
		authGroup.GET("/profiles", c.profile.List)
		authGroup.GET("/profiles/:id", c.profile.Get)
		authGroup.PUT("/profiles/:id", c.profile.Update)
		authGroup.DELETE("/profiles/:id", c.profile.Delete)
		authGroup.GET("/profiles/:id/versions", c.profile.Versions)
		authGroup.GET("/profiles/:id/versions/:version", c.profile.GetVersion)
		authGroup.POST("/profiles/extract", c.profile.Extract)

		// 路径
		authGroup.POST("/paths", c.path.Create)
		authGroup.GET("/paths", c.path.List)
		authGroup.GET("/paths/:id", c.path.Get)
		authGroup.PUT("/paths/:id", c.path.Update)
		authGroup.PUT("/paths/:id/enabled", c.path.SetEnabled)
		authGroup.DELETE("/paths/:id", c.path.Delete)

		// 分析与报告
		authGroup.POST("/analysis", c.analysis.Analyze)
		authGroup.GET("/analysis/presets", c.analysis.Presets)
		authGroup.GET("/reports", c.report.List)
		authGroup.GET("/reports/latest", c.report.Latest)
		authGroup.GET("/reports/:id", c.report.Get)
		authGroup.POST("/reports/:id/archive", c.report.Archive)
	}

	// 管理员相关接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/health", c.health.HealthCheck)
	}
}

package router

import (
	"net/http"
	"time"

	"skinsight/api"
	"skinsight/config"
	_ "skinsight/docs"
	"skinsight/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers 路由依赖的处理器与中间件组件
type Handlers struct {
	Auth     *api.AuthHandler
	Analyze  *api.AnalyzeHandler
	Analysis *api.AnalysisHandler
	Export   *api.ExportHandler
	Report   *api.ReportHandler
	Limiter  middleware.Limiter
	Log      *zap.Logger
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	log := h.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Server.MaxUploadBytes()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.SecureHeaders(cfg.Server.Mode != gin.ReleaseMode),
		CORSMiddleware(cfg.CORS),
	)

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	rl := cfg.RateLimit
	apiGroup := r.Group("/api")
	{
		// 健康检查
		apiGroup.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		apiGroup.POST("/analyze",
			middleware.RateLimit(h.Limiter, "analyze", rl.AnalyzeRequests, rl.Window, log),
			h.Analyze.Analyze,
		)
		apiGroup.POST("/report/generate", h.Report.Generate)

		// 认证相关路由（无需登录）
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login",
				middleware.RateLimit(h.Limiter, "login", rl.LoginAttempts, rl.Window, log),
				h.Auth.Login,
			)
		}

		// 需要 JWT 认证的路由
		authorized := apiGroup.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			authorized.GET("/auth/profile", h.Auth.GetProfile)

			analysis := authorized.Group("/analysis")
			{
				analysis.POST("", h.Analysis.Save)
				analysis.GET("", h.Analysis.List)
				analysis.GET("/export", h.Export.ExportExcel)
				analysis.GET("/:id", h.Analysis.Get)
			}
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件，未配置来源时允许任意来源但不携带凭证
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowedOrigins
		cc.AllowCredentials = true
	}
	return cors.New(cc)
}

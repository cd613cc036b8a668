package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"skinsight/api"
	"skinsight/config"
	"skinsight/database"
	"skinsight/inference"
	"skinsight/logger"
	"skinsight/middleware"
	"skinsight/router"
	"skinsight/service"

	"go.uber.org/zap"
)

// @title SkinSight API
// @version 1.0
// @description 皮肤图片分析服务 API：图片分类、分析记录、PDF 报告邮件发送
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 5000 或 :5000")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("SkinSight v1.0.0")
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()
	zl := logger.Get()

	config.PrintConfig()

	db, err := database.Init(cfg, zl)
	if err != nil {
		zl.Fatal("数据库初始化失败", zap.Error(err))
	}

	middleware.InitJWT(cfg)

	adapter := inference.NewAdapter(cfg.Inference, zl.Named("inference"))
	analyses := service.NewAnalysisService(db)
	reports := service.NewReportService(
		service.NewReportGenerator(cfg.Report.TempDir, cfg.Report.Brand),
		service.NewEmailService(&cfg.Email),
		zl.Named("report"),
	)

	limiter := newLimiter(cfg.RateLimit, zl)
	if ml, ok := limiter.(*middleware.MemoryLimiter); ok {
		defer ml.Stop()
	}

	r := router.SetupRouter(cfg, router.Handlers{
		Auth:     api.NewAuthHandler(db, cfg.JWT.ExpireTime, zl),
		Analyze:  api.NewAnalyzeHandler(adapter, cfg.Server.MaxUploadBytes(), zl),
		Analysis: api.NewAnalysisHandler(analyses, zl),
		Export:   api.NewExportHandler(analyses, zl),
		Report:   api.NewReportHandler(reports),
		Limiter:  limiter,
		Log:      zl,
	})

	zl.Info("SkinSight 已启动",
		zap.String("addr", cfg.Server.Port),
		zap.Bool("mock_inference", adapter.UsesMock()),
		zap.String("swagger", "http://localhost"+cfg.Server.Port+"/swagger/index.html"),
	)

	if err := r.Run(cfg.Server.Port); err != nil {
		zl.Fatal("服务器启动失败", zap.Error(err))
	}
}

// newLimiter 配置了 redis 且可连通时使用 redis 计数，否则使用进程内计数
func newLimiter(cfg config.RateLimitConfig, zl *zap.Logger) middleware.Limiter {
	if cfg.RedisURL != "" {
		rl, err := middleware.NewRedisLimiter(cfg.RedisURL)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err = rl.Ping(ctx)
			cancel()
		}
		if err == nil {
			zl.Info("限流使用 redis 计数")
			return rl
		}
		zl.Warn("redis 不可用，限流改为进程内计数", zap.Error(err))
	}
	return middleware.NewMemoryLimiter(10 * time.Minute)
}

package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"path_advisor_backend/internal/config"
	"path_advisor_backend/internal/controller"
	"path_advisor_backend/internal/repository"
	"path_advisor_backend/internal/service"
	"path_advisor_backend/internal/util"
	"path_advisor_backend/pkg/database"
	"path_advisor_backend/pkg/logger"
	"path_advisor_backend/pkg/monitoring"
	"path_advisor_backend/pkg/security"
	"path_advisor_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user    *repository.UserRepository
	profile *repository.ProfileRepository
	path    *repository.PathRepository
	report  *repository.ReportRepository
	preset  *repository.PresetRepository
}

type services struct {
	auth       *service.AuthService
	profile    *service.ProfileService
	path       *service.PathService
	storage    *service.StorageService
	report     *service.ReportService
	taskGen    *service.TaskGenService
	extraction *service.ExtractionService
	analysis   *service.AnalysisService
}

type controllers struct {
	auth     *controller.AuthController
	profile  *controller.ProfileController
	path     *controller.PathController
	analysis *controller.AnalysisController
	report   *controller.ReportController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，由 configwatcher 在文件变更后调用
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config.Analysis = cfg.Analysis
	a.Config.AI = cfg.AI
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("配置热更新完成",
		zap.Int("topN", cfg.Analysis.TopN),
		zap.Duration("collaboratorTimeout", cfg.Analysis.CollaboratorTimeout),
	)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		profile: repository.NewProfileRepository(db),
		path:    repository.NewPathRepository(db),
		report:  repository.NewReportRepository(db),
		preset:  repository.NewPresetRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.profile = service.NewProfileService(repos.profile)
	s.path = service.NewPathService(repos.path)
	s.report = service.NewReportService(repos.report, s.storage)
	s.taskGen = service.NewTaskGenService(cfg.AI)
	s.extraction = service.NewExtractionService(cfg.AI)
	s.analysis = service.NewAnalysisService(
		repos.profile,
		repos.path,
		repos.preset,
		repos.report,
		s.taskGen,
		rdb,
		cfg,
	)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		profile:  controller.NewProfileController(s.profile, s.extraction),
		path:     controller.NewPathController(s.path),
		analysis: controller.NewAnalysisController(s.analysis),
		report:   controller.NewReportController(s.report),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存缺席时仍可提供服务，分析结果不再缓存
		logger.Log.Warn("Redis unavailable, analysis caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("path-advisor", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/archives", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

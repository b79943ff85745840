package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/internal/controller"
	"prompt_edu_backend/internal/repository"
	"prompt_edu_backend/internal/service"
	"prompt_edu_backend/pkg/configwatcher"
	"prompt_edu_backend/pkg/database"
	"prompt_edu_backend/pkg/logger"
	"prompt_edu_backend/pkg/monitoring"
	"prompt_edu_backend/pkg/security"
	"prompt_edu_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type services struct {
	scoring     *service.ScoringService
	progress    *service.ProgressService
	guidance    *service.GuidanceService
	achievement *service.AchievementService
	leaderboard *service.LeaderboardService
	storage     *service.StorageService
}

type controllers struct {
	scoring     *controller.ScoringController
	learning    *controller.LearningController
	guidance    *controller.GuidanceController
	achievement *controller.AchievementController
	report      *controller.ReportController
	health      *controller.HealthController
}

func (a *App) initServices(cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	s.scoring = service.NewScoringService(cfg.Engine, cfg.Vocabulary)
	s.progress = service.NewProgressService(cfg.Engine)
	s.guidance = service.NewGuidanceService(cfg.Engine)
	s.achievement = service.NewAchievementService(cfg.Vocabulary)
	s.leaderboard = service.NewLeaderboardService(rdb)

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	return s, nil
}

func (a *App) initControllers(s *services, archiveRepo *repository.AttemptArchiveRepository, db *gorm.DB) *controllers {
	return &controllers{
		scoring:     controller.NewScoringController(s.scoring),
		learning:    controller.NewLearningController(s.progress, s.scoring, s.achievement, s.leaderboard, archiveRepo),
		guidance:    controller.NewGuidanceController(s.guidance, s.progress),
		achievement: controller.NewAchievementController(s.achievement, s.progress, s.leaderboard),
		report:      controller.NewReportController(s.storage, s.progress, s.achievement, archiveRepo),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig 配置热更新：目前只动态替换评分词表
func (a *App) watchConfig(s *services) {
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		s.scoring.ReloadVocabulary(newCfg.Vocabulary)
		logger.Log.Info("vocabulary reloaded from config")
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	app := &App{Config: cfg}

	// 数据库和 Redis 都是可选依赖：
	// 引擎状态全部在内存里，归档和排行榜关闭时功能降级
	if cfg.Database.Enabled {
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		}
		app.DB = db
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		app.Redis = rdb
	}

	services, err := app.initServices(cfg, app.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	app.services = services

	var archiveRepo *repository.AttemptArchiveRepository
	if app.DB != nil {
		archiveRepo = repository.NewAttemptArchiveRepository(app.DB)
	}
	controllers := app.initControllers(services, archiveRepo, app.DB)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("prompt-edu", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers)

	app.watchConfig(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
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

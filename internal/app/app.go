package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schoolhub_backend/internal/config"
	"schoolhub_backend/internal/controller"
	"schoolhub_backend/internal/repository"
	"schoolhub_backend/internal/service"
	"schoolhub_backend/pkg/database"
	"schoolhub_backend/pkg/logger"
	"schoolhub_backend/pkg/monitoring"
	"schoolhub_backend/pkg/security"
	"schoolhub_backend/pkg/tracing"

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
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	team       *repository.TeamRepository
	exam       *repository.ExamRepository
	activity   *repository.ActivityRepository
	submission *repository.SubmissionRepository
	attendance *repository.AttendanceRepository
	schedule   *repository.ScheduleRepository
}

type services struct {
	auth       *service.AuthService
	team       *service.TeamService
	policy     *service.PolicyService
	storage    *service.StorageService
	notifier   *service.NotificationService
	exam       *service.ExamService
	activity   *service.ActivityService
	submission *service.SubmissionService
	attendance *service.AttendanceService
	schedule   *service.ScheduleService
	projector  *service.ActivityProjector
}

type controllers struct {
	auth       *controller.AuthController
	team       *controller.TeamController
	exam       *controller.ExamController
	activity   *controller.ActivityController
	submission *controller.SubmissionController
	attendance *controller.AttendanceController
	schedule   *controller.ScheduleController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 热更新运行中配置，只接管可以安全热切的项。
// 考勤服务持有 Attend 的指针，这里原地覆盖即可生效
func (a *App) ReloadConfig(cfg interface{}) {
	newCfg, ok := cfg.(*config.Config)
	if !ok {
		return
	}
	a.Config.Attend = newCfg.Attend
	for _, cb := range a.configCallbacks {
		cb(newCfg)
	}
	logger.Log.Info("config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		team:       repository.NewTeamRepository(db),
		exam:       repository.NewExamRepository(db),
		activity:   repository.NewActivityRepository(db),
		submission: repository.NewSubmissionRepository(db),
		attendance: repository.NewAttendanceRepository(db),
		schedule:   repository.NewScheduleRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.policy = service.NewPolicyService()
	s.storage = service.NewStorageService(cfg)
	s.notifier = service.NewNotificationService(rdb)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.team = service.NewTeamService(repos.team, repos.user)

	// 考试写入经投影器落到活动表，保持作业统一视图与考试同步
	s.projector = service.NewActivityProjector(repos.activity, s.notifier)
	go s.projector.Run()

	s.exam = service.NewExamService(repos.exam, s.policy, s.projector)
	s.activity = service.NewActivityService(repos.activity, s.policy)
	s.submission = service.NewSubmissionService(repos.submission, repos.activity, repos.team, s.policy, s.notifier)
	s.attendance = service.NewAttendanceService(repos.attendance, repos.team, s.policy, &cfg.Attend)
	s.schedule = service.NewScheduleService(repos.schedule, s.policy)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		team:       controller.NewTeamController(s.team),
		exam:       controller.NewExamController(s.exam),
		activity:   controller.NewActivityController(s.activity),
		submission: controller.NewSubmissionController(s.submission, s.storage),
		attendance: controller.NewAttendanceController(s.attendance),
		schedule:   controller.NewScheduleController(s.schedule),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Log.Info("Database migration completed")
		if cfg.MigrateOnly {
			return &App{Config: cfg, DB: db}
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("schoolhub", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
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

	// 投影队列先排空，避免丢掉已受理的考试事件
	if a.services != nil && a.services.projector != nil {
		a.services.projector.Stop()
	}

	// 关闭服务
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

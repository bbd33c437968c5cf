package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	appAuth "github.com/edumanage/educenter/internal/app/auth"
	appControllers "github.com/edumanage/educenter/internal/app/controllers"
	appMigrations "github.com/edumanage/educenter/internal/app/migrations"
	appRepos "github.com/edumanage/educenter/internal/app/repositories"
	appRoutes "github.com/edumanage/educenter/internal/app/routes"
	appServices "github.com/edumanage/educenter/internal/app/services"
	"github.com/edumanage/educenter/internal/config"
	"github.com/edumanage/educenter/internal/db"
	appMiddleware "github.com/edumanage/educenter/internal/middleware"
	pkgAuth "github.com/edumanage/educenter/internal/pkg/auth"
	"github.com/edumanage/educenter/internal/pkg/email"
	"github.com/edumanage/educenter/internal/pkg/export"
	"github.com/edumanage/educenter/internal/pkg/filestorage"
	"github.com/edumanage/educenter/internal/pkg/helpers"
	"github.com/edumanage/educenter/internal/pkg/logger"
	"github.com/edumanage/educenter/internal/pkg/websocket"
	"github.com/edumanage/educenter/internal/seed"
)

// exportsURL prefixes the stored paths of exported report files
const exportsURL = "/exports"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config              *config.Config
	Provider            *db.Provider
	Redis               *redis.Client
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	AuthzService        *appAuth.AuthorizationService
	AuthService         *appServices.AuthService
	NotificationService *appServices.NotificationService
	FileStorage         *filestorage.LocalStorage
	Hub                 *websocket.Hub
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Controllers         *appRoutes.Controllers
	WSHandler           *websocket.Handler
	Logger              zerolog.Logger

	cancel context.CancelFunc
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.ConfigFromStrings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase opens the connection pool, runs migrations and creates the
// default administrator.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.Provider, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")
	provider, err := db.NewProvider(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if cfg.Database.MigrateOnStart {
		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(provider).Migrate(ctx); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			provider.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")
	}

	if err := seed.CreateDefaultAdmin(ctx, appRepos.NewUserRepository(provider), cfg, lgr); err != nil {
		// The server is still usable; an admin can be registered through the API.
		lgr.Error().Err(err).Msg("Failed to create default admin, proceeding anyway...")
	}

	return provider, nil
}

// SetupRedis connects to Redis when configured. Without it preferences are
// kept in the database.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if !cfg.RedisEnabled() {
		lgr.Info().Msg("Redis not configured, preferences are stored in the database")
		return nil
	}
	client, err := db.NewRedisClient(cfg)
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, preferences are stored in the database")
		return nil
	}
	return client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, provider *db.Provider, rdb *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:   cfg,
		Provider: provider,
		Redis:    rdb,
		Logger:   lgr,
	}

	deps.Repos = appRepos.NewRepositories(provider, appRepos.WithRedisPreferences(rdb))

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.ExportPath, cfg.Server.BaseURL+exportsURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 12*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Hub = websocket.NewHub(logger.Component("websocket"))
	deps.WSHandler = websocket.NewHandler(deps.Hub, logger.Component("websocket"))

	mailer := email.NewMailer(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.Port == 465,
	}, logger.Component("email"))
	if !mailer.Enabled() {
		lgr.Warn().Msg("SMTP not configured, absences are only reported to teachers")
	}

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.Repos.TeacherRepository, deps.JWTService, logger.Component("auth"))
	deps.NotificationService = appServices.NewNotificationService(
		deps.Repos.NotificationRepository,
		deps.Repos.AttendanceRepository,
		deps.Hub,
		mailer,
		logger.Component("notifications"),
	)

	userService := appServices.NewUserService(deps.Repos.UserRepository, lgr)
	studentService := appServices.NewStudentService(deps.Repos.StudentRepository, deps.Repos.ParentRepository)
	parentService := appServices.NewParentService(deps.Repos.ParentRepository)
	teacherService := appServices.NewTeacherService(deps.Repos.TeacherRepository, deps.Repos.ClassSessionRepository)
	classroomService := appServices.NewClassroomService(deps.Repos.ClassroomRepository)
	holidayService := appServices.NewHolidayService(deps.Repos.HolidayRepository)
	classService := appServices.NewClassService(provider, deps.Repos)
	scheduleService := appServices.NewScheduleService(deps.Repos)
	sessionService := appServices.NewSessionService(provider, deps.Repos)
	attendanceService := appServices.NewAttendanceService(provider, deps.Repos)
	preferenceService := appServices.NewPreferenceService(deps.Repos.PreferenceStore)
	statisticsService := appServices.NewStatisticsService(deps.Repos)
	reportService := appServices.NewReportService(deps.Repos, statisticsService, deps.FileStorage,
		export.NewPDFWriter(cfg.Export.FontPath, cfg.Export.FontBoldPath), logger.Component("reports"))

	deps.Controllers = &appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, lgr),
		User:         appControllers.NewUserController(userService),
		Student:      appControllers.NewStudentController(studentService, parentService),
		Parent:       appControllers.NewParentController(parentService),
		Teacher:      appControllers.NewTeacherController(teacherService),
		Classroom:    appControllers.NewClassroomController(classroomService),
		Holiday:      appControllers.NewHolidayController(holidayService),
		Class:        appControllers.NewClassController(classService, deps.AuthzService),
		Schedule:     appControllers.NewScheduleController(scheduleService),
		Session:      appControllers.NewSessionController(sessionService, deps.AuthzService, lgr),
		Attendance:   appControllers.NewAttendanceController(attendanceService, deps.AuthzService),
		Notification: appControllers.NewNotificationController(deps.NotificationService),
		Preference:   appControllers.NewPreferenceController(preferenceService),
		Statistics:   appControllers.NewStatisticsController(statisticsService),
		Report:       appControllers.NewReportController(reportService),
	}

	return deps, nil
}

// Start runs the background workers: the websocket hub, the read
// acknowledgement handler and the scheduled absence sweep.
func (d *Dependencies) Start(ctx context.Context) error {
	ctx, d.cancel = context.WithCancel(ctx)

	go d.Hub.Run(ctx)
	websocket.NewMessageHandler(d.NotificationService, d.Hub, logger.Component("websocket")).Start(ctx)

	if d.Config.Notifications.Enabled {
		if err := d.NotificationService.StartAbsenceSweep(ctx, d.Config.Notifications.AbsenceSweepCron); err != nil {
			d.cancel()
			return err
		}
	}
	return nil
}

// Stop halts the background workers and releases the connections
func (d *Dependencies) Stop() {
	d.NotificationService.StopAbsenceSweep()
	if d.cancel != nil {
		d.cancel()
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Error closing Redis client")
		}
	}
	if err := d.Provider.Close(); err != nil {
		d.Logger.Warn().Err(err).Msg("Error closing database pool")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), appMiddleware.Recovery())

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.WSHandler)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

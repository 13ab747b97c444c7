package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/collegetrack/collegetrack-api/api/swagger"
	"github.com/collegetrack/collegetrack-api/internal/handler"
	"github.com/collegetrack/collegetrack-api/internal/middleware"
	"github.com/collegetrack/collegetrack-api/internal/models"
	"github.com/collegetrack/collegetrack-api/internal/repository"
	"github.com/collegetrack/collegetrack-api/internal/service"
	"github.com/collegetrack/collegetrack-api/pkg/cache"
	"github.com/collegetrack/collegetrack-api/pkg/config"
	"github.com/collegetrack/collegetrack-api/pkg/database"
	"github.com/collegetrack/collegetrack-api/pkg/logger"
	corsmiddleware "github.com/collegetrack/collegetrack-api/pkg/middleware/cors"
	reqidmiddleware "github.com/collegetrack/collegetrack-api/pkg/middleware/requestid"
)

// @title CollegeTrack API
// @version 1.0.0
// @description University application tracking for students and parents
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient)
			cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Cache.DefaultTTL, logr, true)
		}
	}

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	universityRepo := repository.NewUniversityRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	requirementRepo := repository.NewRequirementRepository(db)
	noteRepo := repository.NewParentNoteRepository(db)

	guard := service.NewAccessGuard(studentRepo, logr)

	authService := service.NewAuthService(userRepo, studentRepo, nil, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	studentService := service.NewStudentService(studentRepo, nil, logr)
	universityService := service.NewUniversityService(universityRepo, cacheService, logr)
	applicationService := service.NewApplicationService(
		applicationRepo, universityRepo, requirementRepo, noteRepo, guard, nil, logr)
	requirementService := service.NewRequirementService(
		requirementRepo, applicationRepo, guard, nil, logr)
	dashboardService := service.NewDashboardService(service.DashboardServiceParams{
		Applications: applicationRepo,
		Universities: universityRepo,
		Requirements: requirementRepo,
		Students:     studentRepo,
		Notes:        noteRepo,
		Guard:        guard,
		Logger:       logr,
		Config: service.DashboardConfig{
			UpcomingWindow:       cfg.Dashboard.UpcomingWindow,
			RecentActivityWindow: cfg.Dashboard.RecentActivityWindow,
			ParentNotesLimit:     cfg.Dashboard.ParentNotesLimit,
		},
	})
	parentService := service.NewParentService(studentRepo, noteRepo, applicationRepo, guard, nil, logr)
	exportService := service.NewExportService(dashboardService, logr, cfg.Exports.Enabled)

	cookieTTL := int(cfg.JWT.Expiration.Seconds())
	authHandler := handler.NewAuthHandler(authService, cfg.JWT.CookieName, cookieTTL)
	studentHandler := handler.NewStudentHandler(studentService, dashboardService)
	universityHandler := handler.NewUniversityHandler(universityService)
	applicationHandler := handler.NewApplicationHandler(applicationService, exportService, metricsService)
	requirementHandler := handler.NewRequirementHandler(requirementService)
	parentHandler := handler.NewParentHandler(parentService, dashboardService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsService.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	authRequired := middleware.JWT(authService, cfg.JWT.CookieName)
	auth.POST("/logout", authRequired, authHandler.Logout)
	auth.GET("/me", authRequired, authHandler.Me)

	studentOnly := middleware.RequireRoles(models.RoleStudent)
	parentOnly := middleware.RequireRoles(models.RoleParent)

	students := api.Group("/students", authRequired, studentOnly)
	students.GET("/profile", studentHandler.Profile)
	students.PUT("/profile", studentHandler.UpdateProfile)
	students.GET("/dashboard", studentHandler.Dashboard)

	universities := api.Group("/universities", authRequired)
	universities.GET("", universityHandler.Search)
	universities.GET("/:id", universityHandler.Get)
	universities.GET("/:id/requirements", universityHandler.Requirements)

	applications := api.Group("/applications", authRequired)
	applications.GET("", studentOnly, applicationHandler.List)
	applications.POST("", studentOnly, applicationHandler.Create)
	applications.GET("/export", studentOnly, applicationHandler.Export)
	applications.GET("/:id", applicationHandler.Get)
	applications.PUT("/:id", studentOnly, applicationHandler.Update)
	applications.DELETE("/:id", studentOnly, applicationHandler.Delete)
	applications.POST("/:id/submit", studentOnly, applicationHandler.Submit)
	applications.GET("/:id/requirements", requirementHandler.List)
	applications.POST("/:id/requirements", studentOnly, requirementHandler.Add)
	applications.PUT("/:id/requirements/:requirementId", studentOnly, requirementHandler.Update)
	applications.DELETE("/:id/requirements/:requirementId", studentOnly, requirementHandler.Delete)
	applications.GET("/:id/notes", parentOnly, parentHandler.Notes)
	applications.POST("/:id/notes", parentOnly, parentHandler.AddNote)

	parents := api.Group("/parents", authRequired, parentOnly)
	parents.GET("/students", parentHandler.Students)
	parents.GET("/students/:studentId/dashboard", parentHandler.Dashboard)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

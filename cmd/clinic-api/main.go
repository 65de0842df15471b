package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campus-health/clinic-booking-api/api/swagger"
	"github.com/campus-health/clinic-booking-api/internal/handler"
	"github.com/campus-health/clinic-booking-api/internal/middleware"
	"github.com/campus-health/clinic-booking-api/internal/models"
	"github.com/campus-health/clinic-booking-api/internal/notify"
	"github.com/campus-health/clinic-booking-api/internal/repository"
	"github.com/campus-health/clinic-booking-api/internal/service"
	"github.com/campus-health/clinic-booking-api/pkg/cache"
	"github.com/campus-health/clinic-booking-api/pkg/config"
	"github.com/campus-health/clinic-booking-api/pkg/database"
	"github.com/campus-health/clinic-booking-api/pkg/jobs"
	"github.com/campus-health/clinic-booking-api/pkg/logger"
	corsmiddleware "github.com/campus-health/clinic-booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-health/clinic-booking-api/pkg/middleware/requestid"
)

// @title Clinic Booking API
// @version 0.1.0
// @description Campus health clinic appointment booking and reschedule service
// @BasePath /api/v1
// @schemes http

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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Availability reads fall back to the database when redis is down.
		logr.Sugar().Warnw("redis unavailable, day summaries uncached", "error", err)
		redisClient = nil
	}

	appointmentRepo := repository.NewAppointmentRepository(db)
	settingRepo := repository.NewBookingSettingRepository(db)
	overrideRepo := repository.NewDayOverrideRepository(db)
	scheduleRepo := repository.NewScheduleConfigRepository(db)
	campusRepo := repository.NewCampusRepository(db)

	var summaryCache *service.RedisDaySummaryCache
	if redisClient != nil {
		summaryCache = service.NewRedisDaySummaryCache(redisClient, cfg.Booking.AvailabilityTTL, logr)
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	capacitySvc := service.NewCapacityService(
		appointmentRepo,
		settingRepo,
		overrideRepo,
		scheduleRepo,
		summaryCache,
		logr,
		service.CapacityServiceConfig{DefaultMaxPerDay: cfg.Booking.DefaultMaxPerDay},
	)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, capacitySvc, metricsSvc, validate, logr)
	rescheduleSvc := service.NewRescheduleService(
		appointmentRepo,
		capacitySvc,
		metricsSvc,
		validate,
		logr,
		service.RescheduleServiceConfig{
			HorizonDays:         cfg.Reschedule.HorizonDays,
			AllowManualOverbook: cfg.Reschedule.AllowManualOverbook,
		},
	)
	settingsSvc := service.NewSettingsService(
		settingRepo,
		overrideRepo,
		scheduleRepo,
		campusRepo,
		capacitySvc,
		validate,
		logr,
		service.SettingsServiceConfig{DefaultMaxPerDay: cfg.Booking.DefaultMaxPerDay},
	)
	campusSvc := service.NewCampusService(campusRepo, logr)

	var sender notify.EmailSender
	if cfg.Reminders.Enabled {
		if sg := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.Reminders.SendGridAPIKey,
			FromEmail: cfg.Reminders.FromEmail,
			FromName:  cfg.Reminders.FromName,
		}, logr); sg != nil {
			sender = sg
		}
	}
	reminderPool := jobs.NewPool(cfg.Reminders.Workers, logr)
	reminderSvc := service.NewReminderService(appointmentRepo, sender, reminderPool, metricsSvc, logr)
	reportSvc := service.NewReportService(appointmentRepo, logr)

	appointmentHandler := handler.NewAppointmentHandler(appointmentSvc)
	rescheduleHandler := handler.NewRescheduleHandler(rescheduleSvc, reminderSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	campusHandler := handler.NewCampusHandler(campusSvc, capacitySvc)
	reportHandler := handler.NewReportHandler(reportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// Booking is open to students; everything that edits other people's
	// appointments or campus configuration requires a staff token.
	api.POST("/appointments", appointmentHandler.Create)
	api.GET("/campuses", campusHandler.List)
	api.GET("/campuses/:id", campusHandler.Get)
	api.GET("/campuses/:id/availability", campusHandler.Availability)
	api.GET("/campuses/:id/availability/:date", campusHandler.DayAvailability)

	staff := api.Group("")
	staff.Use(middleware.JWT(cfg.JWT.Secret))
	staff.Use(middleware.RequireRole(models.UserRoleAdmin, models.UserRoleStaff))

	staff.GET("/appointments", appointmentHandler.List)
	staff.GET("/appointments/:id", appointmentHandler.Get)
	staff.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
	staff.DELETE("/appointments/:id", appointmentHandler.Delete)

	staff.POST("/campuses/:id/reschedule/auto", rescheduleHandler.Auto)
	staff.POST("/campuses/:id/reschedule/manual", rescheduleHandler.Manual)
	staff.POST("/campuses/:id/reschedule/triage", rescheduleHandler.Triage)
	staff.POST("/campuses/:id/reminders", rescheduleHandler.Reminders)

	staff.GET("/campuses/:id/booking-setting", settingsHandler.GetBookingSetting)
	staff.PUT("/campuses/:id/booking-setting", settingsHandler.UpsertBookingSetting)
	staff.GET("/campuses/:id/overrides", settingsHandler.ListOverrides)
	staff.GET("/campuses/:id/overrides/:date", settingsHandler.GetOverride)
	staff.PUT("/campuses/:id/overrides/:date", settingsHandler.UpsertOverride)
	staff.DELETE("/campuses/:id/overrides/:date", settingsHandler.DeleteOverride)
	staff.GET("/campuses/:id/schedule-config", settingsHandler.GetScheduleConfig)
	staff.PUT("/campuses/:id/schedule-config", settingsHandler.UpsertScheduleConfig)

	if cfg.Reports.Enabled {
		staff.GET("/campuses/:id/reports/daily", reportHandler.Daily)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

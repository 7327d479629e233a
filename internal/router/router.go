package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/appkademy-api/internal/handler"
	"github.com/noah-isme/appkademy-api/internal/middleware"
	"github.com/noah-isme/appkademy-api/internal/models"
	"github.com/noah-isme/appkademy-api/pkg/config"
	"github.com/noah-isme/appkademy-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/appkademy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/appkademy-api/pkg/middleware/requestid"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Teacher  *handler.TeacherHandler
	Student  *handler.StudentHandler
	Subject  *handler.SubjectHandler
	Export   *handler.ExportJobHandler
	Observed *handler.MetricsHandler
}

// Setup builds the gin engine with global middleware and every route group.
func Setup(cfg *config.Config, log *zap.Logger, tokens middleware.TokenValidator, metrics middleware.RequestObserver, h *Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Observed.Health)
	r.GET("/ready", h.Observed.Ready)
	r.GET("/metrics", h.Observed.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.GET("/me", middleware.JWT(tokens), h.Auth.Me)
	}

	requireAuth := middleware.JWT(tokens)
	adminOnly := middleware.RequireUserTypes(models.UserTypeAdmin)

	teachers := api.Group("/teachers")
	{
		teachers.GET("/search", h.Teacher.Search)
		teachers.POST("/search", h.Teacher.SearchByBody)
		teachers.GET("/export", requireAuth, adminOnly, h.Teacher.Export)
		teachers.GET("/me", requireAuth, h.Teacher.Mine)
		teachers.GET("/:id", h.Teacher.Get)
		teachers.POST("", requireAuth, middleware.Audit(log, "create", "teacher"), h.Teacher.Create)
		teachers.PUT("/:id", requireAuth, middleware.Audit(log, "update", "teacher"), h.Teacher.Update)
		teachers.DELETE("/:id", requireAuth, middleware.Audit(log, "delete", "teacher"), h.Teacher.Delete)
	}

	students := api.Group("/students")
	students.Use(requireAuth)
	{
		students.GET("", adminOnly, h.Student.List)
		students.GET("/:id", h.Student.Get)
		students.POST("", middleware.Audit(log, "create", "student"), h.Student.Create)
		students.PUT("/:id", middleware.Audit(log, "update", "student"), h.Student.Update)
		students.DELETE("/:id", middleware.Audit(log, "delete", "student"), h.Student.Delete)
	}

	api.GET("/subjects", h.Subject.List)
	api.GET("/subjects/:id/proficiencies", h.Subject.Proficiencies)
	api.GET("/characteristics", h.Subject.Characteristics)

	exports := api.Group("/exports")
	{
		exports.POST("/jobs", requireAuth, adminOnly, h.Export.Submit)
		exports.GET("/jobs/:id", requireAuth, h.Export.Status)
		exports.GET("/download/:token", h.Export.Download)
	}

	return r
}

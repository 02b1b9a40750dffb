package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/edenzconsult/crm-backend/docs"
	"github.com/edenzconsult/crm-backend/internal/api/handler"
	"github.com/edenzconsult/crm-backend/internal/api/middleware"
	"github.com/edenzconsult/crm-backend/internal/core/domain"
	"github.com/edenzconsult/crm-backend/internal/core/service"
	"github.com/edenzconsult/crm-backend/internal/infrastructure/config"
	mongorepo "github.com/edenzconsult/crm-backend/internal/infrastructure/db/mongo"
	redisinfra "github.com/edenzconsult/crm-backend/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, completer service.Completer, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("crm"))

	// --- Repositories ---
	accounts := mongorepo.NewAccountRepository(db)
	education := mongorepo.NewEducationRepository(db)
	documents := mongorepo.NewDocumentRepository(db)
	applications := mongorepo.NewApplicationRepository(db)
	consultations := mongorepo.NewConsultationRepository(db)
	questionnaires := mongorepo.NewQuestionnaireRepository(db)
	recommendations := mongorepo.NewRecommendationRepository(db)
	chats := mongorepo.NewChatRepository(db)

	// --- Services ---
	codec := service.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL, log)
	limiter := redisinfra.NewRateLimiter(rdb)
	authService := service.NewAuthService(accounts, codec, cfg.AdminProvisionKey, limiter, log)
	studentService := service.NewStudentService(accounts, education, documents, applications, log)
	documentService := service.NewDocumentService(documents, log)
	applicationService := service.NewApplicationService(applications, accounts, log)
	consultationService := service.NewConsultationService(consultations, log)
	questionnaireService := service.NewQuestionnaireService(questionnaires, log)
	recommendationService := service.NewRecommendationService(recommendations, accounts, completer, log)
	chatService := service.NewChatService(chats, completer, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	documentHandler := handler.NewDocumentHandler(documentService)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	consultationHandler := handler.NewConsultationHandler(consultationService)
	questionnaireHandler := handler.NewQuestionnaireHandler(questionnaireService)
	recommendationHandler := handler.NewRecommendationHandler(recommendationService)
	chatHandler := handler.NewChatHandler(chatService)

	authRequired := middleware.Auth(authService)
	authOptional := middleware.OptionalAuth(authService)
	staffOnly := middleware.RequireRole(domain.RoleProcessing, domain.RoleAdmin)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	// --- Public routes ---
	v1.POST("/auth/register", authHandler.RegisterStudent)
	v1.POST("/auth/register-admin", authHandler.RegisterAdmin)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/consultations", consultationHandler.Book, authOptional)
	v1.POST("/chat", chatHandler.Send)

	// --- Authenticated routes ---
	auth := v1.Group("", authRequired)
	auth.GET("/auth/me", authHandler.Me)
	auth.POST("/auth/register-processing", authHandler.RegisterProcessing, adminOnly)

	auth.GET("/students", studentHandler.List, staffOnly)
	auth.GET("/students/:id", studentHandler.Detail, staffOnly)
	auth.GET("/students/:id/profile", studentHandler.GetProfile)
	auth.PUT("/students/:id/profile", studentHandler.UpdateProfile)
	auth.POST("/students/:id/education", studentHandler.AddEducation)
	auth.GET("/students/:id/education", studentHandler.ListEducation)

	auth.POST("/documents", documentHandler.Upload)
	auth.GET("/documents/:id", documentHandler.Get)
	auth.PUT("/documents/:id/review", documentHandler.Review, staffOnly)
	auth.GET("/students/:id/documents", documentHandler.ListByStudent)

	auth.POST("/applications", applicationHandler.Create)
	auth.GET("/applications/:id", applicationHandler.Get)
	auth.PUT("/applications/:id/status", applicationHandler.UpdateStatus, staffOnly)
	auth.GET("/applications/:id/history", applicationHandler.History)
	auth.GET("/students/:id/applications", applicationHandler.ListByStudent)

	auth.GET("/consultations", consultationHandler.List, adminOnly)
	auth.GET("/consultations/:id", consultationHandler.Get)
	auth.PUT("/consultations/:id", consultationHandler.Update, adminOnly)
	auth.GET("/students/:id/consultations", consultationHandler.ListByStudent)

	auth.POST("/questionnaires", questionnaireHandler.Create, adminOnly)
	auth.GET("/questionnaires", questionnaireHandler.List)
	auth.POST("/questionnaires/responses", questionnaireHandler.Submit)
	auth.GET("/students/:id/questionnaire-responses", questionnaireHandler.ListStudentResponses)
	auth.GET("/students/:id/questionnaires/pending", questionnaireHandler.Pending)

	auth.POST("/students/:id/recommendations/generate", recommendationHandler.Generate)
	auth.GET("/students/:id/recommendations", recommendationHandler.ListByStudent)

	return e
}

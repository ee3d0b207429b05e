package handler

import (
	"embed"
	"html/template"

	"github.com/SergeiKhy/click-to-wish/internal/middleware"
	"github.com/SergeiKhy/click-to-wish/internal/service"
	"github.com/SergeiKhy/click-to-wish/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Dependencies groups everything the router wires into handlers.
type Dependencies struct {
	Visits         service.VisitService
	Messages       service.MessageService
	Store          Pinger
	Sessions       *session.Manager
	SessionConfig  middleware.SessionConfig
	RateLimiter    *middleware.RateLimiter
	MessageLimiter *middleware.RateLimiter
	Friend         service.Friend
	Logger         *zap.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	// Middleware для логгирования
	router.Use(middleware.RequestLogger(logger))

	// Rate limiting для всех запросов
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware())
	}

	pageHandler := NewPageHandler(deps.Visits, deps.Messages, deps.Friend, logger)
	apiHandler := NewAPIHandler(deps.Visits, deps.Messages, deps.Store, logger)

	submitLimit := func(c *gin.Context) { c.Next() }
	if deps.MessageLimiter != nil {
		submitLimit = deps.MessageLimiter.Middleware()
	}

	// Страница и форма работают в рамках сессии посетителя
	pages := router.Group("/")
	pages.Use(middleware.Session(deps.Sessions, deps.SessionConfig))
	{
		pages.GET("/", pageHandler.Index)
		pages.POST("/messages", submitLimit, pageHandler.SubmitForm)
	}
	router.GET("/go", pageHandler.GoNow)

	// API v.1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", apiHandler.HealthCheck)
		v1.GET("/stats", apiHandler.GetStats)
		v1.GET("/messages", apiHandler.ListMessages)
		v1.POST("/messages", submitLimit, apiHandler.SubmitMessage)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

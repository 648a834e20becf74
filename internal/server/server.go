package server

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fieldtrack/internal/config"
	"fieldtrack/internal/handler"
	"fieldtrack/internal/middleware"
	"fieldtrack/internal/model"
	"fieldtrack/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Server wires the services, handlers and middleware onto one gin router.
type Server struct {
	router    *gin.Engine
	config    *config.Config
	db        *gorm.DB
	redis     *redis.Client
	nats      *nats.Conn
	wsHub     *handler.WSHub
	wsHandler *handler.WSHandler
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, natsConn *nats.Conn) *Server {
	return &Server{
		config: cfg,
		db:     db,
		redis:  redisClient,
		nats:   natsConn,
	}
}

// Setup initializes routes and handlers
func (s *Server) Setup() {
	s.wsHub = handler.NewWSHub(s.nats)
	s.wsHandler = handler.NewWSHandler(s.wsHub)

	// Services
	events := service.NewEventPublisher(s.nats)
	authService := service.NewAuthService(s.db)
	workdayService := service.NewWorkdayService(s.db)
	visitService := service.NewVisitService(s.db, events)
	fuelService := service.NewFuelService(s.db)
	reportService := service.NewReportService(s.db, s.redis, fuelService, s.config.ReportCacheTTL)
	reportPDF := service.NewReportPDF(s.config.CompanyName)
	shopService := service.NewShopService(s.db)
	importService := service.NewShopImportService(s.db, events)
	statsService := service.NewStatsService(s.db)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, s.config.JWTSecret)
	userHandler := handler.NewUserHandler(s.db, authService)
	workdayHandler := handler.NewWorkdayHandler(workdayService)
	visitHandler := handler.NewVisitHandler(visitService)
	fuelHandler := handler.NewFuelHandler(fuelService, reportService)
	reportHandler := handler.NewReportHandler(reportService, reportPDF, events)
	shopHandler := handler.NewShopHandler(shopService, importService)
	statsHandler := handler.NewStatsHandler(statsService)

	loginLimiter := middleware.NewRateLimiter(s.redis, s.config.LoginRateLimit, s.config.LoginRateWindow)

	go s.wsHub.Run()
	log.Println("[Server] WebSocket hub started")

	s.router = gin.Default()

	// CORS middleware
	s.router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Swagger UI
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	s.router.POST("/api/v1/auth/login", loginLimiter.PerIP("login"), authHandler.Login)

	// WebSocket event stream (token passed as query parameter)
	s.router.GET("/ws/events", authHandler.Middleware(), s.wsHandler.HandleEvents)
	s.router.GET("/ws/stats", s.wsHandler.GetStats)

	// Authenticated routes
	api := s.router.Group("/api/v1")
	api.Use(authHandler.Middleware())
	{
		api.GET("/auth/me", authHandler.GetMe)
		userHandler.RegisterRoutes(api)
		workdayHandler.RegisterRoutes(api)
		visitHandler.RegisterRoutes(api)
		fuelHandler.RegisterRoutes(api)
		shopHandler.RegisterRoutes(api)
		reportHandler.RegisterRoutes(api)

		// Admin and manager surface
		admin := api.Group("")
		admin.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager))
		{
			shopHandler.RegisterAdminRoutes(admin)
			statsHandler.RegisterRoutes(admin)
		}

		// Account management is admin only
		adminOnly := api.Group("")
		adminOnly.Use(middleware.RequireRole(model.RoleAdmin))
		{
			userHandler.RegisterAdminRoutes(adminOnly)
		}
	}
}

// GetWSHub returns the WebSocket hub
func (s *Server) GetWSHub() *handler.WSHub {
	return s.wsHub
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Shutdown stops background components.
func (s *Server) Shutdown() {
	if s.wsHub != nil {
		s.wsHub.Stop()
	}
}

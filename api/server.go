package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/OldStager01/motortemp/api/handlers"
	"github.com/OldStager01/motortemp/api/middleware"
	"github.com/OldStager01/motortemp/api/websocket"
	_ "github.com/OldStager01/motortemp/docs"
	"github.com/OldStager01/motortemp/internal/artifacts"
	"github.com/OldStager01/motortemp/internal/events"
	"github.com/OldStager01/motortemp/internal/metrics"
	"github.com/OldStager01/motortemp/pkg/config"
)

// Dependencies are the collaborators the HTTP surface is wired to
type Dependencies struct {
	Predictor handlers.Predictor
	Artifacts *artifacts.Store
	Bus       *events.EventBus
	// History is nil when prediction history is disabled.
	History handlers.HistoryReader
}

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	config     *config.Config
	deps       Dependencies
	publisher  *events.Publisher
	wsHub      *websocket.Hub
	wsBridge   *websocket.EventBridge
	hubCancel  context.CancelFunc
}

func NewServer(cfg *config.Config, deps Dependencies) *Server {
	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.App.Mode == "test" {
		gin.SetMode(gin.TestMode)
	}

	s := &Server{
		router: gin.New(),
		config: cfg,
		deps:   deps,
	}
	if deps.Bus != nil {
		s.publisher = events.NewPublisher(deps.Bus)
	}

	if cfg.WebSocket.Enabled && deps.Bus != nil {
		s.wsHub = websocket.NewHub(&cfg.WebSocket)

		ctx, cancel := context.WithCancel(context.Background())
		s.hubCancel = cancel
		go s.wsHub.Run(ctx)

		// Forward prediction events to WebSocket clients
		s.wsBridge = websocket.NewEventBridge(s.wsHub, deps.Bus.Subscribe("websocket"))
		s.wsBridge.Start()
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	api := s.config.API

	s.router.Use(gin.Recovery())
	s.router.Use(middleware.TraceID())
	s.router.Use(middleware.AccessLog("/health", "/health/ready", "/metrics"))
	s.router.Use(middleware.SecurityHeaders(s.config.App.Mode == "production"))
	s.router.Use(middleware.CORS(middleware.CORSConfigFrom(api.CORS)))
	s.router.Use(middleware.RateLimit(api.RateLimit, time.Minute))
	s.router.Use(middleware.RequestSizeLimit(api.MaxBodyBytes))

	// Batches cost up to one inference per sample.
	endpointLimiter := middleware.NewEndpointRateLimiter()
	endpointLimiter.AddEndpoint("/batch-predict", api.RateLimit/10, time.Minute)
	s.router.Use(endpointLimiter.Middleware())
}

func (s *Server) setupRoutes() {
	store := s.deps.Artifacts

	healthHandler := handlers.NewHealthHandler(nilSafeStatus(store))
	predictionHandler := handlers.NewPredictionHandler(s.deps.Predictor, nilSafeModel(store), s.publisher, s.config.Model)
	historyHandler := handlers.NewHistoryHandler(s.deps.History, &s.config.API)

	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/health/ready", healthHandler.Ready)

	s.router.POST("/predict", predictionHandler.Predict)
	s.router.POST("/batch-predict", predictionHandler.BatchPredict)
	s.router.GET("/model-info", predictionHandler.ModelInfo)

	s.router.GET("/predictions/recent", historyHandler.Recent)
	s.router.GET("/predictions/stats", historyHandler.Stats)

	if s.config.Prometheus.Enabled {
		path := s.config.Prometheus.Path
		if path == "" {
			path = "/metrics"
		}
		s.router.GET(path, gin.WrapH(metrics.Get().Handler()))
	}

	if s.wsHub != nil {
		s.router.GET("/ws", websocket.ServeWebSocket(s.wsHub))
	}

	if s.config.API.SwaggerUI {
		s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// nilSafeStatus keeps a nil *artifacts.Store from becoming a non-nil interface.
func nilSafeStatus(store *artifacts.Store) handlers.ArtifactStatus {
	if store == nil {
		return nil
	}
	return store
}

func nilSafeModel(store *artifacts.Store) handlers.ModelDescriber {
	if store == nil {
		return nil
	}
	return store
}

func (s *Server) Start() error {
	api := s.config.API
	addr := fmt.Sprintf(":%d", api.Port)

	idle := api.IdleTimeout
	if idle <= 0 {
		idle = 60 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  api.ReadTimeout,
		WriteTimeout: api.WriteTimeout,
		IdleTimeout:  idle,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop the event bridge first
	if s.wsBridge != nil {
		s.wsBridge.Stop()
	}
	if s.hubCancel != nil {
		s.hubCancel()
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) WebSocketHub() *websocket.Hub {
	return s.wsHub
}

package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/newriverone/portal/internal/core/ports"
	customMiddleware "github.com/newriverone/portal/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	BulletinService ports.BulletinService
	FeedService     ports.FeedService
	ShellCache      ports.ShellCacheService
	PortalService   ports.PortalService
	GateService     ports.GateService
	HealthCheckers  []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	bulletinSvc    ports.BulletinService
	feedSvc        ports.FeedService
	shellCache     ports.ShellCacheService
	portalSvc      ports.PortalService
	gateSvc        ports.GateService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		bulletinSvc:    deps.BulletinService,
		feedSvc:        deps.FeedService,
		shellCache:     deps.ShellCache,
		portalSvc:      deps.PortalService,
		gateSvc:        deps.GateService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.GateService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")
	api.POST("/gate", s.unlockGate)

	gated := api.Group("")
	gated.Use(s.middleware.Gate.RequireGate())

	gated.GET("/portal/tiles", s.getTiles)

	gated.GET("/bulletin", s.listPosts)
	gated.POST("/bulletin", s.createPost)
	gated.GET("/bulletin/stream", s.streamPosts)

	// Everything else is the app shell, served through the cache worker.
	s.echo.GET("/*", s.serveShell)
}

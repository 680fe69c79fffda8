package http_api

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	s.router.GET("/healthz", s.health)
	s.router.GET("/api/v1/balances", s.balances)
	s.router.GET("/api/v1/flows", s.flows)
	s.router.GET("/api/v1/stats", s.stats)
}

package httpserver

import echoSwagger "github.com/swaggo/echo-swagger"

// RegisterSwaggerRoutes serves the UI for the docs generated by swag init.
// Operations start collapsed since the movie group is large.
func (s *Server) RegisterSwaggerRoutes() {
	s.Router.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.DocExpansion("none")))
}

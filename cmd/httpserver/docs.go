package main

//go:generate swag init -g cmd/httpserver/main.go -d ../../ -o ../../docs

// @title           Movie Catalog API
// @version         1.0
// @description     Browse and search the movie catalog. Admins manage movies and posters.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

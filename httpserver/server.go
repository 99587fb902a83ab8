package httpserver

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"moviecatalog/auth"
	"moviecatalog/errs"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"moviecatalog/pkg/logger"
	"moviecatalog/pkg/sentry"
	"net/http"
	"strings"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

// PosterStore persists uploaded poster files.
type PosterStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(stored string) error
}

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	Logger *zap.Logger

	MovieService movie.Service

	AuthService auth.Service

	Posters PosterStore

	JWTSecret string
}

func Default(cfg *config.Config) *Server {
	s := Server{
		Router:       echo.New(),
		Addr:         ":8080",
		AllowOrigins: cfg.Origins(),
		Logger:       logger.NOOPLogger,
		JWTSecret:    cfg.Auth.JWTSecret,
	}

	s.Router.HideBanner = true
	s.Router.Validator = NewValidator()
	s.Router.HTTPErrorHandler = s.customHTTPErrorHandler
	s.RegisterGlobalMiddlewares(cfg.Storage.UploadLimit)

	api := s.Router.Group("/api/v1")
	s.RegisterMovieRoutes(api.Group("/movie"))
	s.RegisterAdminRoutes(api.Group("/admin"))
	s.RegisterStaticRoutes(cfg.Storage.Prefix, cfg.Storage.Dir)
	s.RegisterHealthRoutes()
	s.RegisterSwaggerRoutes()
	return &s
}

func (s *Server) RegisterGlobalMiddlewares(bodyLimit string) {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	if bodyLimit != "" {
		s.Router.Use(middleware.BodyLimit(bodyLimit))
	}

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     s.AllowOrigins,
			AllowCredentials: !containsWildcard(s.AllowOrigins),
		}))
	}
}

// RegisterStaticRoutes serves stored posters under the public prefix.
func (s *Server) RegisterStaticRoutes(prefix, dir string) {
	if dir == "" {
		return
	}
	if prefix = strings.Trim(prefix, "/"); prefix == "" {
		prefix = "public/images"
	}
	s.Router.Static("/"+prefix, dir)
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

// customHTTPErrorHandler maps application errors to appropriate HTTP status codes
func (s *Server) customHTTPErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := internalErrorMessage

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		// Map application error codes to HTTP status codes
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			code = http.StatusBadRequest
			message = errs.ErrorMessage(err)
		case errs.ENOTFOUND:
			code = http.StatusNotFound
			message = errs.ErrorMessage(err)
		case errs.ECONFLICT:
			code = http.StatusConflict
			message = errs.ErrorMessage(err)
		case errs.EUNAUTHORIZED:
			code = http.StatusUnauthorized
			message = errs.ErrorMessage(err)
		case errs.EFORBIDDEN:
			code = http.StatusForbidden
			message = errs.ErrorMessage(err)
		case errs.ENOTIMPLEMENTED:
			code = http.StatusNotImplemented
			message = errs.ErrorMessage(err)
		}
	}

	if code >= http.StatusInternalServerError {
		s.reportError(c, err)
	}

	// Don't write response if already committed
	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = writeMessage(c, code, message)
		}
		if err != nil {
			s.Logger.Error("write error response", zap.Error(err))
		}
	}
}

func (s *Server) reportError(c echo.Context, err error) {
	s.Logger.Error("request failed",
		zap.Error(err),
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
	)
	sentry.WithContext(c).Error(err)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

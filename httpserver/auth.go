package httpserver

import (
	"moviecatalog/auth"
	"moviecatalog/errs"
	pkgjwt "moviecatalog/pkg/jwt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const tokenCookie = "token"

var (
	errUnauthorized = errs.Errorf(errs.EUNAUTHORIZED, "Unauthorized")
	errNotAdmin     = errs.Errorf(errs.EFORBIDDEN, "Admin access required")
	errAuthService  = errs.Errorf(errs.ENOTIMPLEMENTED, "auth service not configured")
)

func (s *Server) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/login", s.handleLogin)
	g.GET("/authenticate", s.handleAuthenticate, s.adminMiddlewares()...)
}

// adminMiddlewares verifies the bearer token (header or cookie) and then
// requires the admin role.
func (s *Server) adminMiddlewares() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		echojwt.WithConfig(echojwt.Config{
			SigningKey:    []byte(s.JWTSecret),
			SigningMethod: "HS256",
			TokenLookup:   "header:Authorization:Bearer ,cookie:" + tokenCookie,
			NewClaimsFunc: func(echo.Context) jwt.Claims {
				return new(pkgjwt.Claims)
			},
			ErrorHandler: func(echo.Context, error) error {
				return errUnauthorized
			},
		}),
		requireAdmin,
	}
}

func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return errUnauthorized
		}
		claims, ok := token.Claims.(*pkgjwt.Claims)
		if !ok || claims.Role != auth.RoleAdmin {
			return errNotAdmin
		}
		return next(c)
	}
}

// handleLogin godoc
// @Summary Admin Login
// @Description Exchange admin credentials for an access token. The token is also set as the "token" cookie.
// @Tags admin
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login Credentials"
// @Success 200 {object} APIResponse{data=TokenResponse}
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /api/v1/admin/login [post]
func (s *Server) handleLogin(c echo.Context) error {
	if s.AuthService == nil {
		return errAuthService
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := s.AuthService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     tokenCookie,
		Value:    token.AccessToken,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})

	return writeData(c, http.StatusOK, "Login successful", TokenResponse{
		Token:     token.AccessToken,
		ExpiresAt: token.ExpiresAt,
	})
}

// handleAuthenticate godoc
// @Summary Verify Admin
// @Description Succeeds when the caller presents a valid admin token
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 403 {object} APIResponse
// @Router /api/v1/admin/authenticate [get]
func (s *Server) handleAuthenticate(c echo.Context) error {
	return writeMessage(c, http.StatusOK, "Valid Admin User")
}

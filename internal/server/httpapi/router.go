// Package httpapi is the HTTP transport of the user-management service:
// a gin router, the authentication middleware and the JSON handlers.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sangvinij/user-management-micro-service/internal/logging"
	"github.com/sangvinij/user-management-micro-service/internal/server/auth"
	"github.com/sangvinij/user-management-micro-service/internal/server/models"
	"github.com/sangvinij/user-management-micro-service/internal/server/services"
)

// NewRouter assembles the public HTTP surface. allowedHosts configures the
// CORS origins; "*" allows any origin.
func NewRouter(
	allowedHosts []string,
	authenticator *auth.Authenticator,
	authService *services.AuthService,
	userService *services.UserService,
	logger logging.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))
	r.Use(cors.New(corsConfig(allowedHosts)))

	r.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	authHandler := NewAuthHandler(authService, logger)
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh-token", authHandler.Refresh)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
		authGroup.POST("/reset-password/confirm", authHandler.ResetPasswordConfirm)
	}

	userHandler := NewUserHandler(userService, logger)
	authed := r.Group("")
	authed.Use(RequireAuth(authenticator))
	{
		me := authed.Group("/user/me")
		{
			me.GET("", userHandler.Me)
			me.PATCH("", userHandler.UpdateMe)
			me.DELETE("", userHandler.DeleteMe)
		}

		elevated := authed.Group("/user")
		elevated.Use(RequireRoles(models.RoleAdmin, models.RoleModerator))
		{
			elevated.GET("/:user_id", userHandler.One)
		}

		admin := authed.Group("/user")
		admin.Use(RequireRoles(models.RoleAdmin))
		{
			admin.PATCH("/:user_id", userHandler.UpdateOne)
			admin.DELETE("/:user_id", userHandler.DeleteOne)
		}

		list := authed.Group("/users")
		list.Use(RequireRoles(models.RoleAdmin, models.RoleModerator))
		{
			list.GET("", userHandler.List)
		}
	}

	return r
}

func corsConfig(allowedHosts []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, h := range allowedHosts {
		if h == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = allowedHosts
	return cfg
}

// requestLogger emits one structured log line per request.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	log := logger.With("module", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

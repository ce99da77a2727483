package http

import (
	"github.com/gin-gonic/gin"

	"github.com/punkdirectory/punkauth/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService, secureCookies bool) *gin.Engine {
	router := gin.Default()

	// Create handlers
	handlers := NewAuthHandlers(authService, secureCookies)

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.GET("/nonce", handlers.Nonce)
		auth.POST("/login", handlers.Login)
		auth.POST("/logout", handlers.Logout)
		auth.GET("/me", handlers.Me)
		auth.POST("/me", handlers.RefreshMe)
	}

	// Protected API routes
	api := router.Group("/api")
	api.Use(RequireAuth(authService))
	{
		api.GET("/punks/:id/authorize", handlers.AuthorizePunk)
	}

	return router
}

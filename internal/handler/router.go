package handler

import (
	"net/http"

	"squadup/backend/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter wires every route of the API.
func NewRouter(h *Handler, jwtSecret string, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), Metrics())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := auth.Middleware(jwtSecret)
	optionalAuth := auth.OptionalMiddleware(jwtSecret)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", h.RegisterUser)
			authRoutes.POST("/login", h.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(requireAuth)
		{
			userRoutes.GET("/me", h.GetMe)
		}

		// Game catalog (public)
		gameRoutes := apiV1.Group("/games")
		{
			gameRoutes.GET("", h.GetGames)
			gameRoutes.GET("/:id", h.GetGameByID)
		}

		// Lobby reads are public; a token only adds is_member to the detail view.
		lobbyReads := apiV1.Group("/lobbies")
		lobbyReads.Use(optionalAuth)
		{
			lobbyReads.GET("", h.SearchLobbies)
			lobbyReads.GET("/stats", h.GetLobbyStats) // Must be before /:id
			lobbyReads.GET("/:id", h.GetLobbyByID)
		}

		// Lobby mutations (protected)
		lobbyRoutes := apiV1.Group("/lobbies")
		lobbyRoutes.Use(requireAuth)
		{
			lobbyRoutes.POST("", h.CreateLobby)
			lobbyRoutes.PUT("/:id", h.UpdateLobby)
			lobbyRoutes.DELETE("/:id", h.DeleteLobby)
			lobbyRoutes.POST("/:id/join", h.JoinLobby)
			lobbyRoutes.POST("/:id/leave", h.LeaveLobby)
			lobbyRoutes.DELETE("/:id/members/:userID", h.KickMember)
		}

		// Live events
		eventRoutes := apiV1.Group("/events")
		eventRoutes.Use(optionalAuth)
		{
			eventRoutes.GET("", h.StreamEvents)
			eventRoutes.GET("/ws", h.EventsWebSocket)
		}
	}

	return router
}

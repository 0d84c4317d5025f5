package handler

import (
	"net/http"
	"strconv"

	"gamecatalog/backend/internal/admin"
	"gamecatalog/backend/internal/auth"
	"gamecatalog/backend/internal/catalog"
	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/logging"
	"gamecatalog/backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Handler serves the HTTP API.
type Handler struct {
	query    *catalog.QueryService
	mutation *catalog.MutationService
	gate     *admin.Gate
	auth     *auth.Service
	events   *hub.Hub
}

func New(query *catalog.QueryService, mutation *catalog.MutationService, gate *admin.Gate, authService *auth.Service, events *hub.Hub) *Handler {
	return &Handler{
		query:    query,
		mutation: mutation,
		gate:     gate,
		auth:     authService,
		events:   events,
	}
}

// NewRouter builds the gin engine with every API route registered.
func NewRouter(h *Handler, jwtSecret string) *gin.Engine {
	router := gin.New()
	router.Use(logging.RequestLogger(), gin.Recovery(), metrics.Middleware())

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", metrics.Handler())

	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/anonymous", h.SignInAnonymous)
			authRoutes.POST("/register", h.Register)
			authRoutes.POST("/login", h.Login)
			authRoutes.GET("/me", auth.AuthMiddleware(jwtSecret), h.GetMe)
		}

		// Public catalog routes
		gameRoutes := apiV1.Group("/games")
		{
			gameRoutes.GET("", h.ListGames)
			gameRoutes.GET("/:id", h.GetGame)
		}

		tagRoutes := apiV1.Group("/tags")
		{
			tagRoutes.GET("", h.ListTags)
			tagRoutes.GET("/names", h.ListTagNames)
			tagRoutes.GET("/groups", h.ListTagGroups)
		}

		apiV1.GET("/events", h.StreamEvents)

		// Admin routes. The mutation service gates every write itself, so the
		// caller is resolved optionally and denials come back as 403.
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.OptionalAuthMiddleware(jwtSecret))
		{
			adminRoutes.GET("/status", h.AdminStatus)
			adminRoutes.POST("/verify", h.VerifyAdminCode)
			adminRoutes.GET("/me", auth.AuthMiddleware(jwtSecret), auth.AdminMiddleware(h.gate), h.AdminMe)

			// Tags CRUD
			tags := adminRoutes.Group("/tags")
			{
				tags.POST("", h.CreateTag)
				tags.PUT("/:id", h.UpdateTag)
				tags.DELETE("/:id", h.DeleteTag)
			}

			// Games CRUD
			adminGameRoutes := adminRoutes.Group("/games")
			{
				adminGameRoutes.POST("", h.CreateGame)
				adminGameRoutes.PUT("/:id", h.UpdateGame)
				adminGameRoutes.DELETE("/:id", h.DeleteGame)
			}
		}
	}

	return router
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

package handlers

import (
	"todomon/internal/middleware"
	"todomon/internal/storage"

	"github.com/gin-gonic/gin"
)

// NewRouter assembles the mock API router with the full middleware chain.
func NewRouter(store storage.Store) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(middleware.NewCORSConfigFromEnv()))
	router.Use(middleware.RequestSizeLimit(middleware.NewSecurityConfigFromEnv().MaxRequestBodySize))
	router.Use(middleware.RequestLogger())
	router.Use(middleware.GlobalRateLimiter(middleware.NewRateLimitConfigFromEnv()))

	registerRoutes(router, store)
	return router
}

// NewTestRouter assembles a bare router without the middleware chain,
// for handler tests.
func NewTestRouter(store storage.Store) *gin.Engine {
	router := gin.New()
	registerRoutes(router, store)
	return router
}

func registerRoutes(router *gin.Engine, store storage.Store) {
	todoHandler := NewTodoHandler(store)

	api := router.Group("/api")
	{
		todos := api.Group("/todos")
		{
			todos.GET("", todoHandler.ListTodos)
			todos.POST("", todoHandler.CreateTodo)
			todos.DELETE("", todoHandler.DeleteTodos)
			todos.PUT("/:todoId", todoHandler.UpdateTodo)
			todos.PUT("/:todoId/move", todoHandler.MoveTodo)
			todos.DELETE("/:todoId", todoHandler.DeleteTodo)
		}
	}

	router.GET("/health", Health)
}

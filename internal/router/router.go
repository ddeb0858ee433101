package router

import (
	"net/http"

	"technews/internal/handlers"
	"technews/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, gdb *gorm.DB) {
	// Handlers
	userHandler := handlers.NewUserHandler(gdb)
	postHandler := handlers.NewPostHandler(gdb)
	commentHandler := handlers.NewCommentHandler(gdb)

	api := r.Group("/api")

	// Public routes
	api.GET("/users", userHandler.List)
	api.GET("/users/:id", userHandler.Get)
	api.POST("/users", userHandler.Register)
	api.POST("/users/login", userHandler.Login)
	api.POST("/users/logout", userHandler.Logout)
	api.DELETE("/users/:id", userHandler.Delete)

	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id", postHandler.Get)

	api.GET("/comments", commentHandler.List)
	api.DELETE("/comments/:id", commentHandler.Delete)

	// Protected routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.PUT("/users/:id", userHandler.Update)

		authorized.POST("/posts", postHandler.Create)
		authorized.PUT("/posts/upvote", postHandler.Upvote)
		authorized.PUT("/posts/:id", postHandler.Update)
		authorized.DELETE("/posts/:id", postHandler.Delete)

		authorized.POST("/comments", commentHandler.Create)
	}

	// Unmatched routes get an empty 404
	r.NoRoute(func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})
}

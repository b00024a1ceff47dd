package router

import (
	"newsbrew/internal/config"
	"newsbrew/internal/handlers"
	"newsbrew/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(cfg)
	pageHandler := handlers.NewPageHandler()
	feedHandler := handlers.NewFeedHandler()
	voteHandler := handlers.NewVoteHandler()
	adminHandler := handlers.NewAdminHandler(cfg)

	// Public Routes
	r.GET("/", pageHandler.Home)
	r.GET("/home", pageHandler.Home)
	r.GET("/about", pageHandler.About)
	r.GET("/newsfeed", feedHandler.Newsfeed)

	r.GET("/login", authHandler.Login)
	r.GET("/callback", authHandler.Callback)
	r.POST("/callback", authHandler.Callback)
	r.GET("/logout", authHandler.Logout)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/account", pageHandler.Account)
		authorized.POST("/like-post/:post_id", voteHandler.Like)
		authorized.POST("/dislike-post/:post_id", voteHandler.Dislike)
		authorized.GET("/get_admin", adminHandler.GetAdmin)
	}

	// Admin Routes
	admin := r.Group("/")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/admin_post", adminHandler.Posts)
		admin.GET("/admin_user", adminHandler.Users)
		admin.GET("/delete-user/:user_id", adminHandler.DeleteUser)
		admin.GET("/delete-post/:post_id", adminHandler.DeletePost)
	}
}

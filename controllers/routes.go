package controllers

import (
	"net/http"

	"Pulse/middlewares"

	"github.com/gin-gonic/gin"
)

func (s *Server) initializeRoutes() {

	// Auth routes
	s.Router.POST("/auth/signup/", middlewares.LoginRateLimitMiddleware(), s.CreateUser)
	s.Router.GET("/auth/login/", s.LoginForm)
	s.Router.POST("/auth/login/", middlewares.LoginRateLimitMiddleware(), s.Login)

	// Feed routes (readable by anyone)
	s.Router.GET("/", s.Index)
	s.Router.GET("/group/:slug/", s.GroupPosts)
	s.Router.GET("/profile/:username/", s.Profile)
	s.Router.GET("/posts/:id/", s.PostDetail)

	// Write routes (redirect-to-login for anonymous viewers)
	loginRequired := middlewares.LoginRequiredMiddleware(s.DB)
	s.Router.GET("/create/", loginRequired, s.NewPost)
	s.Router.POST("/create/", loginRequired, s.CreatePost)
	s.Router.GET("/posts/:id/edit/", loginRequired, s.EditPostForm)
	s.Router.POST("/posts/:id/edit/", loginRequired, s.EditPost)
	s.Router.POST("/posts/:id/comment/", loginRequired, s.AddComment)

	// Follow routes
	s.Router.GET("/follow/", loginRequired, s.FollowIndex)
	s.Router.GET("/profile/:username/follow/", loginRequired, s.ProfileFollow)
	s.Router.GET("/profile/:username/unfollow/", loginRequired, s.ProfileUnfollow)

	// Admin routes
	s.Router.POST("/admin/cache/clear/", loginRequired, middlewares.AdminOnlyMiddleware(), s.ClearCache)
	s.Router.POST("/admin/groups/", loginRequired, middlewares.AdminOnlyMiddleware(), s.CreateGroup)

	s.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
	})
}

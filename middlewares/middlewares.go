package middlewares

import (
	"Pulse/auth"
	"Pulse/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoginRequiredMiddleware guards the write routes. Anonymous viewers are not
// given an error body; they are redirected to the login page with the
// original path carried in next, matching browser form flows.
func LoginRequiredMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.TokenValid(c.Request); err != nil {
			redirectToLogin(c)
			return
		}
		userID, err := auth.ExtractTokenID(c.Request)
		if err != nil {
			redirectToLogin(c)
			return
		}

		var user models.User
		if err := db.Select("id", "is_admin").First(&user, userID).Error; err != nil {
			redirectToLogin(c)
			return
		}

		c.Set("userID", userID)
		c.Set("isAdmin", user.IsAdmin)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	// Paths are kept verbatim in next so the login page can send the viewer
	// straight back.
	c.Redirect(302, "/auth/login/?next="+c.Request.URL.Path)
	c.Abort()
}

// This enables us interact with a browser frontend on another origin
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowedOrigins := []string{
			"http://localhost:3000",
			"http://localhost:8080",
		}

		for _, o := range allowedOrigins {
			if o == origin {
				c.Writer.Header().Set("Access-Control-Allow-Origin", o)
				break
			}
		}

		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Authorization, Content-Length, X-CSRF-Token, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods",
			"POST, GET, OPTIONS, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

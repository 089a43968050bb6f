package httpctx

import "github.com/gin-gonic/gin"

// CurrentUserID returns the authenticated viewer's ID when the auth
// middleware has run; ok is false for anonymous requests.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok
}

// IsAdminRequest reports whether the current viewer carries the admin flag.
func IsAdminRequest(c *gin.Context) bool {
	val, exists := c.Get("isAdmin")
	if !exists {
		return false
	}
	isAdmin, ok := val.(bool)
	return ok && isAdmin
}

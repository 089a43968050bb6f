package controllers

import (
	"Pulse/auth"

	"github.com/gin-gonic/gin"
)

// optionalViewerID identifies the viewer on routes that are readable by
// anyone. A missing or invalid token simply means an anonymous viewer.
func optionalViewerID(c *gin.Context) (uint, bool) {
	uid, err := auth.ExtractTokenID(c.Request)
	if err != nil {
		return 0, false
	}
	return uid, true
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"Pulse/models"
	httpctx "Pulse/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfileFollow subscribes the viewer to an author's posts. Following
// yourself is refused, and following twice leaves a single edge; both cases
// end in the same redirect to the profile.
func (server *Server) ProfileFollow(c *gin.Context) {
	viewerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/auth/login/?next="+c.Request.URL.Path)
		return
	}

	author, err := models.FindUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading user"})
		return
	}

	if viewerID != author.ID {
		if _, err := models.SaveFollow(server.DB, viewerID, author.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error following user"})
			return
		}
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", author.Username))
}

// ProfileUnfollow removes the viewer's subscription. A missing edge is a
// no-op, not an error.
func (server *Server) ProfileUnfollow(c *gin.Context) {
	viewerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/auth/login/?next="+c.Request.URL.Path)
		return
	}

	author, err := models.FindUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading user"})
		return
	}

	if _, err := models.DeleteFollow(server.DB, viewerID, author.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error unfollowing user"})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/profile/%s/", author.Username))
}

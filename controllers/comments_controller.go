package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"Pulse/models"
	httpctx "Pulse/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type commentInput struct {
	Text string `json:"text" form:"text"`
}

// AddComment attaches a comment to the target post as the authenticated
// viewer, then sends them back to the detail view. The route is
// login-guarded; the comment author is always the viewer.
func (server *Server) AddComment(c *gin.Context) {
	viewerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/auth/login/?next="+c.Request.URL.Path)
		return
	}

	pid, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	post, err := models.FindPostByID(server.DB, uint(pid))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading post"})
		return
	}

	input := commentInput{}
	if c.ContentType() == "application/json" {
		err = c.ShouldBindJSON(&input)
	} else {
		err = c.ShouldBind(&input)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot read submitted form",
		})
		return
	}

	comment := models.Comment{
		PostID: post.ID,
		UserID: viewerID,
		Text:   input.Text,
	}
	comment.Prepare()

	if errorMessages := comment.Validate(); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
			"form":   gin.H{"text": input.Text},
		})
		return
	}

	if _, err := comment.SaveComment(server.DB); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to save comment"})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/posts/%d/", post.ID))
}

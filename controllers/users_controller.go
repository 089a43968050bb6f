package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"Pulse/models"
	"Pulse/utils/formaterror"

	"github.com/gin-gonic/gin"
)

// CreateUser signs a new author up. Identity management beyond this is out
// of scope for the core: a valid account plus a token is all the feed and
// mutation paths need.
func (server *Server) CreateUser(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Unable to get request",
		})
		return
	}

	user := models.User{}
	if err := json.Unmarshal(body, &user); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot unmarshal body",
		})
		return
	}

	user.Prepare()
	errorMessages := user.Validate("")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	userCreated, err := user.SaveUser(server.DB)
	if err != nil {
		formattedError := formaterror.FormatError(err.Error())
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  formattedError,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": http.StatusCreated,
		"response": gin.H{
			"id":        userCreated.ID,
			"public_id": userCreated.PublicID,
			"username":  userCreated.Username,
			"email":     userCreated.Email,
		},
	})
}

package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"Pulse/models"
	"Pulse/utils/formaterror"

	"github.com/gin-gonic/gin"
)

// ClearCache evicts every cached feed page. Behind the admin guard; exists
// so operators (and the test suite) can force the next global-feed request
// to observe current store state instead of waiting out the TTL.
func (server *Server) ClearCache(c *gin.Context) {
	if err := server.Cache.Clear(context.Background()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to clear cache"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "response": "Cache cleared"})
}

// CreateGroup registers a new community. Groups have no self-serve creation
// flow, so this sits behind the admin guard alongside the cache controls.
func (server *Server) CreateGroup(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unable to read request"})
		return
	}
	group := models.Group{}
	if err = json.Unmarshal(body, &group); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot unmarshal body"})
		return
	}
	group.Prepare()
	if errs := group.Validate(); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errs})
		return
	}
	created, err := group.SaveGroup(server.DB)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": formaterror.FormatError(err.Error())})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "response": toGroupResponse(created)})
}

package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"Pulse/models"
	httpctx "Pulse/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Index serves the global feed: every post, newest first. This is the only
// page behind the response cache, so new posts may not show up until the
// cache TTL lapses or an admin clears it.
func (server *Server) Index(c *gin.Context) {
	page := requestedPage(c)
	cacheKey := fmt.Sprintf("index:page:%d", page)

	body, err := server.Cache.GetOrRender(context.Background(), cacheKey, server.CacheTTL, func() ([]byte, error) {
		respBody, err := server.renderGlobalFeed(page)
		if err != nil {
			return nil, err
		}
		return json.Marshal(respBody)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve posts"})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}

func (server *Server) renderGlobalFeed(page int) (gin.H, error) {
	total, err := models.CountAllPosts(server.DB)
	if err != nil {
		return nil, err
	}
	offset, pagination := paginate(total, page, PostsPerPage)

	posts, err := models.FindAllPosts(server.DB, offset, PostsPerPage)
	if err != nil {
		return nil, err
	}

	return gin.H{
		"status":     http.StatusOK,
		"response":   toPostListResponse(posts),
		"pagination": pagination,
	}, nil
}

// GroupPosts serves a group's feed by slug. Posts with no group never show
// up here for any slug.
func (server *Server) GroupPosts(c *gin.Context) {
	group, err := models.FindGroupBySlug(server.DB, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading group"})
		return
	}

	total, err := models.CountGroupPosts(server.DB, group.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to count posts"})
		return
	}
	offset, pagination := paginate(total, requestedPage(c), PostsPerPage)

	posts, err := models.FindGroupPosts(server.DB, group.ID, offset, PostsPerPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     http.StatusOK,
		"group":      toGroupResponse(group),
		"response":   toPostListResponse(posts),
		"pagination": pagination,
	})
}

// Profile serves an author's feed plus the viewer's relationship to them:
// following is true only for an authenticated viewer who is not the author
// and holds a follow edge.
func (server *Server) Profile(c *gin.Context) {
	author, err := models.FindUserByUsername(server.DB, c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading user"})
		return
	}

	total, err := models.CountAuthorPosts(server.DB, author.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to count posts"})
		return
	}
	offset, pagination := paginate(total, requestedPage(c), PostsPerPage)

	posts, err := models.FindAuthorPosts(server.DB, author.ID, offset, PostsPerPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve posts"})
		return
	}

	following := false
	isSelf := false
	if viewerID, hasViewer := optionalViewerID(c); hasViewer {
		isSelf = viewerID == author.ID
		if !isSelf {
			following, err = models.FollowExists(server.DB, viewerID, author.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading follow state"})
				return
			}
		}
	}

	followers, err := models.CountFollowers(server.DB, author.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading follow state"})
		return
	}
	follows, err := models.CountFollowing(server.DB, author.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error loading follow state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"author": gin.H{
			"id":        author.PublicID,
			"username":  author.Username,
			"followers": followers,
			"follows":   follows,
		},
		"following":  following,
		"is_self":    isSelf,
		"response":   toPostListResponse(posts),
		"pagination": pagination,
	})
}

// FollowIndex serves the personalized feed: posts by every author the viewer
// follows. The route is login-guarded; a viewer following nobody gets a
// valid empty page, not an error.
func (server *Server) FollowIndex(c *gin.Context) {
	viewerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/auth/login/?next="+c.Request.URL.Path)
		return
	}

	total, err := models.CountFollowingPosts(server.DB, viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to count posts"})
		return
	}
	offset, pagination := paginate(total, requestedPage(c), PostsPerPage)

	posts, err := models.FindFollowingPosts(server.DB, viewerID, offset, PostsPerPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to retrieve posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     http.StatusOK,
		"response":   toPostListResponse(posts),
		"pagination": pagination,
	})
}

package controllers

import (
	"net/http"
	"testing"

	"Pulse/models"

	"github.com/stretchr/testify/assert"
)

// The global feed is cached whole: deleting every post does not change the
// rendered page until the cache is cleared.
func TestGlobalFeedServesStalePageUntilCleared(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "stale")
	post := createTestPost(t, server, author, "soon to be deleted", nil)

	w := doRequest(t, server, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, feedItems(t, w.Body.Bytes()), 1)
	cachedBody := w.Body.String()

	if _, err := post.DeleteAPost(server.DB, post.ID); err != nil {
		t.Fatalf("Failed to delete post: %v", err)
	}

	// Still the one-post page, byte for byte.
	w = doRequest(t, server, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cachedBody, w.Body.String())

	// An admin clear makes the next request observe current state.
	admin := createTestUser(t, server, "cacheadmin")
	if err := server.DB.Model(&models.User{}).Where("id = ?", admin.ID).
		Update("is_admin", true).Error; err != nil {
		t.Fatalf("Failed to promote admin: %v", err)
	}
	w = doRequest(t, server, http.MethodPost, "/admin/cache/clear/", tokenFor(t, admin))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, server, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, feedItems(t, w.Body.Bytes()), 0)
}

// Creating a post does not invalidate the cached page: the staleness window
// is deliberate and bounded by the TTL.
func TestGlobalFeedDoesNotSeeNewPostsWhileCached(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "latewriter")

	w := doRequest(t, server, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, feedItems(t, w.Body.Bytes()), 0)

	createTestPost(t, server, author, "published after caching", nil)

	w = doRequest(t, server, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, feedItems(t, w.Body.Bytes()), 0)
}

// Group and profile feeds are never cached, so they observe writes
// immediately.
func TestOtherFeedsAreNotCached(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "freshwriter")

	w := doRequest(t, server, http.MethodGet, "/profile/freshwriter/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, feedItems(t, w.Body.Bytes()), 0)

	createTestPost(t, server, author, "instantly visible", nil)

	w = doRequest(t, server, http.MethodGet, "/profile/freshwriter/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, feedItems(t, w.Body.Bytes()), 1)
}

func TestCacheClearRequiresAdmin(t *testing.T) {
	server := newTestServer(t)
	user := createTestUser(t, server, "plainuser")

	w := doRequest(t, server, http.MethodPost, "/admin/cache/clear/", tokenFor(t, user))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Anonymous callers get the login redirect, same as any guarded route.
	w = doRequest(t, server, http.MethodPost, "/admin/cache/clear/", "")
	assert.Equal(t, http.StatusFound, w.Code)
}

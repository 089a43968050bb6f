package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"Pulse/models"

	"github.com/stretchr/testify/assert"
)

func TestAddCommentAnonymousRedirectsToLogin(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "target")
	post := createTestPost(t, server, author, "comment me", nil)

	target := fmt.Sprintf("/posts/%d/comment/", post.ID)
	w := doForm(t, server, http.MethodPost, target, "", url.Values{"text": {"anon"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next="+target, w.Header().Get("Location"))

	var count int64
	server.DB.Model(&models.Comment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestAddCommentAttachesToPostAndRedirects(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "blogger")
	commenter := createTestUser(t, server, "fan")
	post := createTestPost(t, server, author, "a post", nil)

	form := url.Values{"text": {"well said"}}
	w := doForm(t, server, http.MethodPost, fmt.Sprintf("/posts/%d/comment/", post.ID), tokenFor(t, commenter), form)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), w.Header().Get("Location"))

	comments, err := models.GetComments(server.DB, post.ID)
	assert.NoError(t, err)
	if assert.Len(t, comments, 1) {
		assert.Equal(t, "well said", comments[0].Text)
		// The author is always the viewer, never client input.
		assert.Equal(t, commenter.ID, comments[0].UserID)
	}
}

func TestAddCommentEmptyTextFailsValidation(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "strict")
	post := createTestPost(t, server, author, "a post", nil)

	form := url.Values{"text": {""}}
	w := doForm(t, server, http.MethodPost, fmt.Sprintf("/posts/%d/comment/", post.ID), tokenFor(t, author), form)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var envelope map[string]interface{}
	decodeJSON(t, w.Body.Bytes(), &envelope)
	errMap := envelope["error"].(map[string]interface{})
	assert.Contains(t, errMap, "Required_text")

	var count int64
	server.DB.Model(&models.Comment{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestAddCommentUnknownPostIsNotFound(t *testing.T) {
	server := newTestServer(t)
	commenter := createTestUser(t, server, "lost")

	form := url.Values{"text": {"hello?"}}
	w := doForm(t, server, http.MethodPost, "/posts/424242/comment/", tokenFor(t, commenter), form)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

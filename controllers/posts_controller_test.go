package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"Pulse/models"

	"github.com/stretchr/testify/assert"
)

func TestCreatePostAnonymousRedirectsToLogin(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/create/", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/create/", w.Header().Get("Location"))

	w = doForm(t, server, http.MethodPost, "/create/", "", url.Values{"text": {"hello"}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=/create/", w.Header().Get("Location"))
}

func TestCreatePostRedirectsToProfile(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "poster")
	group := createTestGroup(t, server, "travel")

	form := url.Values{
		"text":     {"my first post"},
		"group_id": {fmt.Sprint(group.ID)},
	}
	w := doForm(t, server, http.MethodPost, "/create/", tokenFor(t, author), form)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/poster/", w.Header().Get("Location"))

	var post models.Post
	err := server.DB.Where("author_id = ?", author.ID).First(&post).Error
	assert.NoError(t, err)
	assert.Equal(t, "my first post", post.Text)
	if assert.NotNil(t, post.GroupID) {
		assert.Equal(t, group.ID, *post.GroupID)
	}
}

func TestCreatePostEmptyTextPreservesInput(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "emptyposter")
	group := createTestGroup(t, server, "travel")

	form := url.Values{
		"text":     {"   "},
		"group_id": {fmt.Sprint(group.ID)},
	}
	w := doForm(t, server, http.MethodPost, "/create/", tokenFor(t, author), form)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var envelope map[string]interface{}
	decodeJSON(t, w.Body.Bytes(), &envelope)
	errMap := envelope["error"].(map[string]interface{})
	assert.Contains(t, errMap, "Required_text")
	formEcho := envelope["form"].(map[string]interface{})
	assert.EqualValues(t, group.ID, formEcho["group_id"])

	var count int64
	server.DB.Model(&models.Post{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestEditPostNonAuthorLeavesPostUntouched(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "owner")
	intruder := createTestUser(t, server, "intruder")
	group := createTestGroup(t, server, "travel")
	post := createTestPost(t, server, author, "original text", &group.ID)

	form := url.Values{"text": {"hijacked"}}
	w := doForm(t, server, http.MethodPost, fmt.Sprintf("/posts/%d/edit/", post.ID), tokenFor(t, intruder), form)

	// The non-author is sent to the read-only detail view, not an error page.
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), w.Header().Get("Location"))

	var reloaded models.Post
	assert.NoError(t, server.DB.First(&reloaded, post.ID).Error)
	assert.Equal(t, "original text", reloaded.Text)
	if assert.NotNil(t, reloaded.GroupID) {
		assert.Equal(t, group.ID, *reloaded.GroupID)
	}
	assert.Equal(t, post.ImagePath, reloaded.ImagePath)
}

func TestEditPostByAuthorUpdatesAndRedirects(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "editor")
	post := createTestPost(t, server, author, "draft", nil)

	form := url.Values{"text": {"final"}}
	w := doForm(t, server, http.MethodPost, fmt.Sprintf("/posts/%d/edit/", post.ID), tokenFor(t, author), form)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), w.Header().Get("Location"))

	var reloaded models.Post
	assert.NoError(t, server.DB.First(&reloaded, post.ID).Error)
	assert.Equal(t, "final", reloaded.Text)
	// The publication timestamp survives edits.
	assert.True(t, post.CreatedAt.Equal(reloaded.CreatedAt))
}

func TestPostDetailShowsComments(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "detailauthor")
	commenter := createTestUser(t, server, "commenter")
	post := createTestPost(t, server, author, "discussed post", nil)

	comment := models.Comment{PostID: post.ID, UserID: commenter.ID, Text: "nice one"}
	_, err := comment.SaveComment(server.DB)
	assert.NoError(t, err)

	w := doRequest(t, server, http.MethodGet, fmt.Sprintf("/posts/%d/", post.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)

	var envelope map[string]interface{}
	decodeJSON(t, w.Body.Bytes(), &envelope)
	comments := envelope["comments"].([]interface{})
	assert.Len(t, comments, 1)
	first := comments[0].(map[string]interface{})
	assert.Equal(t, "nice one", first["text"])
	assert.Equal(t, "commenter", first["author"].(map[string]interface{})["username"])
}

func TestPostDetailUnknownIDIsNotFound(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/posts/9999/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, server, http.MethodGet, "/posts/abc/", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewPostFormListsGroups(t *testing.T) {
	server := newTestServer(t)
	author := createTestUser(t, server, "formviewer")
	createTestGroup(t, server, "travel")
	createTestGroup(t, server, "cooking")

	w := doRequest(t, server, http.MethodGet, "/create/", tokenFor(t, author))
	assert.Equal(t, http.StatusOK, w.Code)

	var envelope map[string]interface{}
	decodeJSON(t, w.Body.Bytes(), &envelope)
	assert.Len(t, envelope["groups"].([]interface{}), 2)
}

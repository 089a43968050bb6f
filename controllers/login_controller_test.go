package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupAndLogin(t *testing.T) {
	server := newTestServer(t)

	payload := map[string]string{
		"username": "newauthor",
		"email":    "newauthor@example.com",
		"password": "password123",
	}
	w := doJSON(t, server, http.MethodPost, "/auth/signup/", "", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	login := map[string]string{
		"email":    "newauthor@example.com",
		"password": "password123",
	}
	w = doJSON(t, server, http.MethodPost, "/auth/login/", "", login)
	assert.Equal(t, http.StatusOK, w.Code)

	var envelope map[string]interface{}
	decodeJSON(t, w.Body.Bytes(), &envelope)
	response := envelope["response"].(map[string]interface{})
	token, ok := response["token"].(string)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	// The issued token opens the guarded routes.
	w = doRequest(t, server, http.MethodGet, "/follow/", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignupDuplicateUsernameFails(t *testing.T) {
	server := newTestServer(t)
	createTestUser(t, server, "taken")

	payload := map[string]string{
		"username": "taken",
		"email":    "other@example.com",
		"password": "password123",
	}
	w := doJSON(t, server, http.MethodPost, "/auth/signup/", "", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLoginWrongPasswordFails(t *testing.T) {
	server := newTestServer(t)
	createTestUser(t, server, "secure")

	login := map[string]string{
		"email":    "secure@example.com",
		"password": "wrong-password",
	}
	w := doJSON(t, server, http.MethodPost, "/auth/login/", "", login)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLoginFormEchoesNext(t *testing.T) {
	server := newTestServer(t)

	w := doRequest(t, server, http.MethodGet, "/auth/login/?next=/create/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var envelope map[string]interface{}
	decodeJSON(t, w.Body.Bytes(), &envelope)
	assert.Equal(t, "/create/", envelope["next"])
}

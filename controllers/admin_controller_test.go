package controllers

import (
	"net/http"
	"testing"

	"Pulse/models"

	"github.com/stretchr/testify/assert"
)

func TestAdminCreateGroup(t *testing.T) {
	server := newTestServer(t)
	admin := createTestUser(t, server, "groupadmin")
	if err := server.DB.Model(&models.User{}).Where("id = ?", admin.ID).
		Update("is_admin", true).Error; err != nil {
		t.Fatalf("Failed to promote admin: %v", err)
	}

	w := doJSON(t, server, http.MethodPost, "/admin/groups/", tokenFor(t, admin), map[string]string{
		"title":       "Gardening",
		"slug":        "gardening",
		"description": "Tips and tools",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	group, err := models.FindGroupBySlug(server.DB, "gardening")
	if err != nil {
		t.Fatalf("Failed to load group: %v", err)
	}
	assert.Equal(t, "Gardening", group.Title)
}

func TestAdminCreateGroupRejectsMissingSlug(t *testing.T) {
	server := newTestServer(t)
	admin := createTestUser(t, server, "slugadmin")
	if err := server.DB.Model(&models.User{}).Where("id = ?", admin.ID).
		Update("is_admin", true).Error; err != nil {
		t.Fatalf("Failed to promote admin: %v", err)
	}

	w := doJSON(t, server, http.MethodPost, "/admin/groups/", tokenFor(t, admin), map[string]string{
		"title": "No Slug",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAdminCreateGroupForbiddenForNonAdmin(t *testing.T) {
	server := newTestServer(t)
	user := createTestUser(t, server, "plainuser")

	w := doJSON(t, server, http.MethodPost, "/admin/groups/", tokenFor(t, user), map[string]string{
		"title": "Nope",
		"slug":  "nope",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	server.DB.Model(&models.Group{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

package models

import (
	"html"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Group is a topical collection of posts, addressed by its unique slug.
type Group struct {
	ID          uint      `gorm:"primary_key;autoIncrement" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Slug        string    `gorm:"size:200;not null;unique" json:"slug"`
	Description string    `gorm:"text" json:"description"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (g *Group) Prepare() {
	g.Title = html.EscapeString(strings.TrimSpace(g.Title))
	g.Slug = strings.ToLower(strings.TrimSpace(g.Slug))
	g.Description = html.EscapeString(strings.TrimSpace(g.Description))
}

func (g *Group) Validate() map[string]string {
	var errorMessages = make(map[string]string)
	if g.Title == "" {
		errorMessages["Required_title"] = "Title is required"
	}
	if g.Slug == "" {
		errorMessages["Required_slug"] = "Slug is required"
	}
	return errorMessages
}

func (g *Group) SaveGroup(db *gorm.DB) (*Group, error) {
	if err := db.Create(&g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

func FindGroupBySlug(db *gorm.DB, slug string) (*Group, error) {
	group := Group{}
	err := db.Where("slug = ?", strings.ToLower(slug)).Take(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func FindAllGroups(db *gorm.DB) ([]Group, error) {
	groups := []Group{}
	err := db.Order("title asc").Find(&groups).Error
	return groups, err
}

// DeleteAGroup leaves the group's posts in place; their group reference is
// nulled by the SET NULL constraint on posts.group_id.
func (g *Group) DeleteAGroup(db *gorm.DB, gid uint) (int64, error) {
	result := db.Where("id = ?", gid).Delete(&Group{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

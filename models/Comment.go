package models

import (
	"html"
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID  string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Author    User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"author"`
	Text      string    `gorm:"text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(c.PublicID) == "" {
		c.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (c *Comment) Prepare() {
	c.ID = 0
	c.Text = html.EscapeString(strings.TrimSpace(c.Text))
	c.Author = User{}
}

func (c *Comment) Validate() map[string]string {
	var errorMessages = make(map[string]string)

	if c.Text == "" {
		errorMessages["Required_text"] = "Text is required"
	}
	if c.UserID == 0 {
		errorMessages["Required_user"] = "User is required"
	}
	if c.PostID == 0 {
		errorMessages["Required_post"] = "Post is required"
	}
	return errorMessages
}

func (c *Comment) SaveComment(db *gorm.DB) (*Comment, error) {
	err := db.Create(&c).Error
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetComments returns a post's comments newest first, with authors preloaded
// so usernames render without a second round trip.
func GetComments(db *gorm.DB, pid uint) ([]Comment, error) {
	comments := []Comment{}
	err := db.Preload("Author").Where("post_id = ?", pid).
		Order("created_at desc, id desc").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// When a user is deleted, we also delete the comments that the user had
func (c *Comment) DeleteUserComments(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("user_id = ?", uid).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// When a post is deleted, we also delete the comments that the post had
func (c *Comment) DeletePostComments(db *gorm.DB, pid uint) (int64, error) {
	result := db.Where("post_id = ?", pid).Delete(&Comment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

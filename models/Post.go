package models

import (
	"html"
	"strings"
	"time"

	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

// Post ordering is shared by every feed query. The id tiebreak keeps pages
// stable when several posts land on the same timestamp.
const postOrder = "posts.created_at desc, posts.id desc"

type Post struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID  string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	Text      string    `gorm:"text;not null" json:"text"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	ImagePath string    `gorm:"size:255" json:"image_path"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_posts_created" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(p.PublicID) == "" {
		p.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (p *Post) Prepare() {
	p.Text = html.EscapeString(strings.TrimSpace(p.Text))
	p.Author = User{}
	p.Group = nil
}

func (p *Post) Validate() map[string]string {
	var errorMessages = make(map[string]string)
	if p.Text == "" {
		errorMessages["Required_text"] = "Text is required"
	}
	if p.AuthorID == 0 {
		errorMessages["Required_author"] = "Author is required"
	}
	return errorMessages
}

func (p *Post) SavePost(db *gorm.DB) (*Post, error) {
	if err := db.Create(&p).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Author").Preload("Group").First(&p, p.ID).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func FindPostByID(db *gorm.DB, pid uint) (*Post, error) {
	post := Post{}
	err := db.Preload("Author").Preload("Group").First(&post, pid).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateAPost changes only the author-editable fields. CreatedAt is
// server-assigned and never rewritten.
func (p *Post) UpdateAPost(db *gorm.DB) (*Post, error) {
	err := db.Model(&Post{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"text":       p.Text,
		"group_id":   p.GroupID,
		"image_path": p.ImagePath,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}
	return FindPostByID(db, p.ID)
}

// DeleteAPost takes the post's comments with it.
func (p *Post) DeleteAPost(db *gorm.DB, pid uint) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := (&Comment{}).DeletePostComments(tx, pid); err != nil {
			return err
		}
		result := tx.Where("id = ?", pid).Delete(&Post{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// When a user is deleted, their posts go too.
func (p *Post) DeleteUserPosts(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("author_id = ?", uid).Delete(&Post{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ===============================
// FEED QUERIES
// ===============================
// Each feed kind is a count/fetch pair over the same filter so the paginator
// can clamp before fetching. No related-object traversal happens outside
// these functions.

func CountAllPosts(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&Post{}).Count(&total).Error
	return total, err
}

func FindAllPosts(db *gorm.DB, offset, limit int) ([]Post, error) {
	posts := []Post{}
	err := db.Preload("Author").Preload("Group").
		Order(postOrder).Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

func CountGroupPosts(db *gorm.DB, gid uint) (int64, error) {
	var total int64
	err := db.Model(&Post{}).Where("group_id = ?", gid).Count(&total).Error
	return total, err
}

func FindGroupPosts(db *gorm.DB, gid uint, offset, limit int) ([]Post, error) {
	posts := []Post{}
	err := db.Preload("Author").Preload("Group").
		Where("group_id = ?", gid).
		Order(postOrder).Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

func CountAuthorPosts(db *gorm.DB, authorID uint) (int64, error) {
	var total int64
	err := db.Model(&Post{}).Where("author_id = ?", authorID).Count(&total).Error
	return total, err
}

func FindAuthorPosts(db *gorm.DB, authorID uint, offset, limit int) ([]Post, error) {
	posts := []Post{}
	err := db.Preload("Author").Preload("Group").
		Where("author_id = ?", authorID).
		Order(postOrder).Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

func CountFollowingPosts(db *gorm.DB, viewerID uint) (int64, error) {
	var total int64
	err := db.Model(&Post{}).
		Joins("JOIN follows ON follows.followed_id = posts.author_id").
		Where("follows.follower_id = ?", viewerID).
		Count(&total).Error
	return total, err
}

func FindFollowingPosts(db *gorm.DB, viewerID uint, offset, limit int) ([]Post, error) {
	posts := []Post{}
	err := db.Preload("Author").Preload("Group").
		Joins("JOIN follows ON follows.followed_id = posts.author_id").
		Where("follows.follower_id = ?", viewerID).
		Order(postOrder).Offset(offset).Limit(limit).Find(&posts).Error
	return posts, err
}

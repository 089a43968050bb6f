package models

import (
	"html"
	"strings"
	"time"

	"Pulse/security"

	"github.com/badoux/checkmail"
	"github.com/twinj/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	PublicID  string    `gorm:"type:uuid;uniqueIndex;column:public_id" json:"public_id"`
	Username  string    `gorm:"size:255;not null;unique" json:"username"`
	Email     string    `gorm:"size:100;not null;unique" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"password,omitempty"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (u *User) HashPassword() error {
	hashedPassword, err := security.Hash(u.Password)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	return u.HashPassword()
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if strings.TrimSpace(u.PublicID) == "" {
		u.PublicID = uuid.NewV4().String()
	}
	return nil
}

func (u *User) Prepare() {
	u.Username = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Username)))
	u.Email = html.EscapeString(strings.ToLower(strings.TrimSpace(u.Email)))
	// Admin status is never taken from client input.
	if u.ID == 0 {
		u.IsAdmin = false
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
}

func (u *User) Validate(action string) map[string]string {
	var errorMessages = make(map[string]string)

	switch strings.ToLower(action) {
	case "login":
		if u.Password == "" {
			errorMessages["Required_password"] = "Password is required"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Email is required"
		} else if err := checkmail.ValidateFormat(u.Email); err != nil {
			errorMessages["Invalid_email"] = "Please provide a valid email"
		}
	default:
		if u.Username == "" {
			errorMessages["Required_username"] = "Username is required"
		}
		if u.Password == "" {
			errorMessages["Required_password"] = "Password is required"
		} else if len(u.Password) < 6 {
			errorMessages["Invalid_password"] = "Password should be at least 6 characters"
		}
		if u.Email == "" {
			errorMessages["Required_email"] = "Email is required"
		} else if err := checkmail.ValidateFormat(u.Email); err != nil {
			errorMessages["Invalid_email"] = "Please provide a valid email"
		}
	}
	return errorMessages
}

func (u *User) SaveUser(db *gorm.DB) (*User, error) {
	if err := db.Create(&u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// FindUserByUsername resolves the profile owner for /profile/{user}/ pages.
func FindUserByUsername(db *gorm.DB, username string) (*User, error) {
	user := User{}
	err := db.Where("username = ?", strings.ToLower(username)).Take(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(db *gorm.DB, uid uint) (*User, error) {
	user := User{}
	err := db.First(&user, uid).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAUser removes the user and everything hanging off them: comments,
// posts and both directions of follow edges. Postgres cascades would cover
// most of this, but the cleanup is done explicitly so every store behaves
// the same.
func (u *User) DeleteAUser(db *gorm.DB, uid uint) (int64, error) {
	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := (&Comment{}).DeleteUserComments(tx, uid); err != nil {
			return err
		}
		if _, err := (&Post{}).DeleteUserPosts(tx, uid); err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", uid, uid).
			Delete(&Follow{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", uid).Delete(&User{})
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

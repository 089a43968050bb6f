package models

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Follow is a directed edge: follower receives followed's posts in their
// following feed. The composite unique index keeps the edge singular.
type Follow struct {
	ID         uint      `gorm:"primary_key;autoIncrement" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique;index:idx_follows_follower_created,priority:1" json:"follower_id"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follows_unique;index:idx_follows_followed_created,priority:1" json:"followed_id"`
	Follower   User      `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Followed   User      `gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_follows_followed_created,priority:2;index:idx_follows_follower_created,priority:2" json:"created_at"`
}

// SaveFollow is idempotent: saving an existing edge affects zero rows and is
// not an error. Self-follows are refused before this point and by the
// store-level CHECK constraint.
func SaveFollow(db *gorm.DB, followerID, followedID uint) (bool, error) {
	follow := Follow{FollowerID: followerID, FollowedID: followedID}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteFollow is idempotent: deleting a missing edge affects zero rows and
// is not an error.
func DeleteFollow(db *gorm.DB, followerID, followedID uint) (bool, error) {
	result := db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func FollowExists(db *gorm.DB, followerID, followedID uint) (bool, error) {
	var count int64
	if err := db.Model(&Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func CountFollowers(db *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := db.Model(&Follow{}).Where("followed_id = ?", userID).Count(&count).Error
	return count, err
}

func CountFollowing(db *gorm.DB, userID uint) (int64, error) {
	var count int64
	err := db.Model(&Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

package repository

import (
	"github.com/vshalt/chirp/internal/model"

	"gorm.io/gorm"
)

type FollowRepository struct {
	db *gorm.DB
}

func (r *FollowRepository) Create(follow *model.Follow) error {
	return r.db.Create(follow).Error
}

func (r *FollowRepository) Delete(followerID, followedID uint) (bool, error) {
	result := r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *FollowRepository) Exists(followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FollowRepository) CountFollowed(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id != ?", userID, userID).Count(&count).Error
	return count, err
}

func (r *FollowRepository) CountFollowers(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("followed_id = ? AND follower_id != ?", userID, userID).Count(&count).Error
	return count, err
}

func (r *FollowRepository) ListFollowers(userID uint, offset, limit int) ([]model.Follow, int64, error) {
	var follows []model.Follow
	var total int64

	// 自关注边只是时间线查询的内部技巧，对外列表一律排除
	query := r.db.Model(&model.Follow{}).
		Where("followed_id = ? AND follower_id != ?", userID, userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Preload("Follower").Order("timestamp DESC").
		Offset(offset).Limit(limit).Find(&follows).Error; err != nil {
		return nil, 0, err
	}
	return follows, total, nil
}

func (r *FollowRepository) ListFollowed(userID uint, offset, limit int) ([]model.Follow, int64, error) {
	var follows []model.Follow
	var total int64

	query := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND followed_id != ?", userID, userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Preload("Followed").Order("timestamp DESC").
		Offset(offset).Limit(limit).Find(&follows).Error; err != nil {
		return nil, 0, err
	}
	return follows, total, nil
}

func (r *FollowRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Count(&count).Error
	return count, err
}

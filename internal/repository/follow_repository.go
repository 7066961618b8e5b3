package repository

import "github.com/vshalt/chirp/internal/model"

type FollowStore interface {
	Create(follow *model.Follow) error
	Delete(followerID, followedID uint) (bool, error)
	Exists(followerID, followedID uint) (bool, error)
	// CountFollowed / CountFollowers 计数，不含自关注边
	CountFollowed(userID uint) (int64, error)
	CountFollowers(userID uint) (int64, error)
	// ListFollowers / ListFollowed 分页列出关注关系，不含自关注边
	ListFollowers(userID uint, offset, limit int) ([]model.Follow, int64, error)
	ListFollowed(userID uint, offset, limit int) ([]model.Follow, int64, error)
	CountAll() (int64, error)
}

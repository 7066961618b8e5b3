package service

import (
	"errors"
	"time"

	"github.com/vshalt/chirp/internal/common"
	"github.com/vshalt/chirp/internal/model"

	"gorm.io/gorm"
)

// Follow 建立关注关系。自关注和重复关注都会被拒绝，
// 自关注边只在账号确认时写入，不经过这里。
func (s *FollowService) Follow(followerID uint, username string) (*model.User, error) {
	target, err := s.findByUsername(username)
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		return nil, common.NewValidationError("不能关注自己")
	}

	exists, err := s.followStore.Exists(followerID, target.ID)
	if err != nil {
		return nil, common.NewInternalError("关注失败，请稍后重试")
	}
	if exists {
		return nil, common.NewConflictError("已经关注过该用户")
	}

	edge := model.Follow{FollowerID: followerID, FollowedID: target.ID, Timestamp: time.Now()}
	if err := s.followStore.Create(&edge); err != nil {
		return nil, common.NewInternalError("关注失败，请稍后重试")
	}
	return target, nil
}

// Unfollow 解除关注关系，未关注时返回冲突提示
func (s *FollowService) Unfollow(followerID uint, username string) (*model.User, error) {
	target, err := s.findByUsername(username)
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		return nil, common.NewValidationError("不能取消关注自己")
	}

	deleted, err := s.followStore.Delete(followerID, target.ID)
	if err != nil {
		return nil, common.NewInternalError("取消关注失败，请稍后重试")
	}
	if !deleted {
		return nil, common.NewConflictError("尚未关注该用户")
	}
	return target, nil
}

func (s *FollowService) findByUsername(username string) (*model.User, error) {
	user, err := s.userStore.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("用户不存在")
		}
		return nil, common.NewInternalError("查询用户失败，请稍后重试")
	}
	return user, nil
}

func (s *FollowService) IsFollowing(followerID, followedID uint) (bool, error) {
	return s.followStore.Exists(followerID, followedID)
}

func (s *FollowService) IsFollowedBy(userID, followerID uint) (bool, error) {
	return s.followStore.Exists(followerID, userID)
}

// Followers 分页列出关注 username 的用户（不含其自关注边）
func (s *FollowService) Followers(username string, offset, limit int) ([]model.Follow, int64, error) {
	user, err := s.findByUsername(username)
	if err != nil {
		return nil, 0, err
	}
	follows, total, err := s.followStore.ListFollowers(user.ID, offset, limit)
	if err != nil {
		return nil, 0, common.NewInternalError("查询关注者失败，请稍后重试")
	}
	return follows, total, nil
}

// Followed 分页列出 username 关注的用户（不含其自关注边）
func (s *FollowService) Followed(username string, offset, limit int) ([]model.Follow, int64, error) {
	user, err := s.findByUsername(username)
	if err != nil {
		return nil, 0, err
	}
	follows, total, err := s.followStore.ListFollowed(user.ID, offset, limit)
	if err != nil {
		return nil, 0, common.NewInternalError("查询关注列表失败，请稍后重试")
	}
	return follows, total, nil
}

// FollowerCount / FollowedCount 对外计数，自关注边在查询层已被排除
func (s *FollowService) FollowerCount(userID uint) (int64, error) {
	return s.followStore.CountFollowers(userID)
}

func (s *FollowService) FollowedCount(userID uint) (int64, error) {
	return s.followStore.CountFollowed(userID)
}

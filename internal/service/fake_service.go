package service

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vshalt/chirp/internal/model"

	"github.com/google/uuid"
)

// 开发环境造数用，生产模式不会挂载

// Users 批量生成已确认的测试用户
func (s *FakeService) Users(count int) ([]model.User, error) {
	defaultRole, err := s.roleStore.FindDefault()
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.NewString()[:8]
		hashed, err := HashPassword(fmt.Sprintf("pw_%s1", id))
		if err != nil {
			return nil, err
		}

		now := time.Now()
		user := model.User{
			Username:     "user_" + id,
			Email:        fmt.Sprintf("user_%s@example.com", id),
			PasswordHash: hashed,
			Confirmed:    true,
			RoleID:       defaultRole.ID,
			Name:         "Fake User " + id,
			MemberSince:  now,
			LastSeen:     now,
		}
		if err := s.userStore.Create(&user); err != nil {
			return nil, err
		}
		if err := s.followStore.Create(&model.Follow{
			FollowerID: user.ID,
			FollowedID: user.ID,
			Timestamp:  now,
		}); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// Posts 为给定用户批量生成帖子，时间戳在过去 30 天内随机分布
func (s *FakeService) Posts(users []model.User, count int) error {
	if len(users) == 0 {
		return nil
	}
	for i := 0; i < count; i++ {
		author := users[rand.Intn(len(users))]
		post := model.Post{
			Body:      "Lorem chirp " + uuid.NewString(),
			Timestamp: time.Now().Add(-time.Duration(rand.Intn(30*24)) * time.Hour),
			AuthorID:  author.ID,
		}
		if err := s.postStore.Create(&post); err != nil {
			return err
		}
	}
	return nil
}

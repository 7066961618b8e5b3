package service

import (
	"errors"

	"github.com/vshalt/chirp/internal/common"
	"github.com/vshalt/chirp/internal/consts"
	"github.com/vshalt/chirp/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// HashPassword 生成带随机盐的单向密码哈希。明文从不落库。
func HashPassword(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword 校验明文密码与存储哈希是否匹配
func (s *UserService) VerifyPassword(user *model.User, plaintext string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plaintext)) == nil
}

// SetPassword 重新散列并持久化用户密码
func (s *UserService) SetPassword(user *model.User, plaintext string) error {
	hashed, err := HashPassword(plaintext)
	if err != nil {
		return common.NewInternalError("密码加密失败")
	}
	user.PasswordHash = hashed
	if err := s.userStore.UpdatePasswordByID(user.ID, hashed); err != nil {
		return common.NewInternalError("密码更新失败，请稍后重试")
	}
	return nil
}

// Ping 刷新用户最后活跃时间，认证请求每次都会调用
func (s *UserService) Ping(userID uint) error {
	return s.userStore.UpdateLastSeenByID(userID)
}

func (s *UserService) GetByID(userID uint) (*model.User, error) {
	user, err := s.userStore.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("用户不存在")
		}
		return nil, common.NewInternalError("查询用户失败，请稍后重试")
	}
	return user, nil
}

func (s *UserService) GetByUsername(username string) (*model.User, error) {
	user, err := s.userStore.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("用户不存在")
		}
		return nil, common.NewInternalError("查询用户失败，请稍后重试")
	}
	return user, nil
}

func (s *UserService) IsUsernameTaken(username string, excludeUserID *uint) (bool, error) {
	return s.userStore.FieldExists(consts.UserFieldUsername, username, excludeUserID)
}

func (s *UserService) IsEmailTaken(email string, excludeUserID *uint) (bool, error) {
	return s.userStore.FieldExists(consts.UserFieldEmail, email, excludeUserID)
}

// UpdateProfile 更新个人资料。并发编辑采用最后写入生效。
func (s *UserService) UpdateProfile(userID uint, name, location, aboutMe string) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Location = location
	user.AboutMe = aboutMe
	if err := s.userStore.Save(user); err != nil {
		return nil, common.NewInternalError("资料更新失败，请稍后重试")
	}
	return user, nil
}

// DeleteUser 删除用户账号。关注边、帖子和评论在同一事务里显式级联清理。
func (s *UserService) DeleteUser(userID uint) error {
	if _, err := s.GetByID(userID); err != nil {
		return err
	}
	if err := s.userStore.DeleteCascade(userID); err != nil {
		return common.NewInternalError("删除用户失败，请稍后重试")
	}
	return nil
}

// PostsCount 用户已发布的帖子数
func (s *UserService) PostsCount(userID uint) (int64, error) {
	return s.postStore.CountByAuthor(userID)
}

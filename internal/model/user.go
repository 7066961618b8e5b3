package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Permission 权限位，按位或组合到角色上
type Permission int

const (
	PermissionFollow   Permission = 1 << iota // 关注其他用户
	PermissionComment                         // 发表评论
	PermissionWrite                           // 发表帖子
	PermissionModerate                        // 管理评论
	PermissionAdmin                           // 管理员
)

type Role struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"unique;not null"`
	Default     bool       `json:"default" gorm:"column:is_default;default:false;index"`
	Permissions Permission `json:"permissions" gorm:"not null;default:0"`
	Users       []User     `json:"-"`
}

// HasPermission 判断角色是否拥有指定权限位
func (r *Role) HasPermission(perm Permission) bool {
	return r.Permissions&perm == perm
}

func (r *Role) AddPermission(perm Permission) {
	if !r.HasPermission(perm) {
		r.Permissions |= perm
	}
}

func (r *Role) RemovePermission(perm Permission) {
	if r.HasPermission(perm) {
		r.Permissions &^= perm
	}
}

func (r *Role) ResetPermissions() {
	r.Permissions = 0
}

type User struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Username     string    `json:"username" gorm:"unique;not null"`
	Email        string    `json:"email" gorm:"unique;index;size:255"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Confirmed    bool      `json:"confirmed" gorm:"default:false"`
	RoleID       uint      `json:"role_id"`
	Role         *Role     `json:"-"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	AboutMe      string    `json:"about_me"`
	MemberSince  time.Time `json:"member_since"`
	LastSeen     time.Time `json:"last_seen"`
	Posts        []Post    `json:"-" gorm:"foreignKey:AuthorID"`
	Comments     []Comment `json:"-" gorm:"foreignKey:AuthorID"`
}

// BeforeSave 邮箱统一小写存储，保证唯一性约束大小写不敏感
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(u.Email)
	return nil
}

// Can 判断用户是否拥有指定权限。未加载角色时一律视为无权限。
func (u *User) Can(perm Permission) bool {
	if u == nil || u.Role == nil {
		return false
	}
	return u.Role.HasPermission(perm)
}

func (u *User) IsModerator() bool {
	return u.Can(PermissionModerate)
}

func (u *User) IsAdministrator() bool {
	return u.Can(PermissionAdmin)
}

// Follow 关注关系边：follower 关注 followed
type Follow struct {
	FollowerID uint      `json:"follower_id" gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint      `json:"followed_id" gorm:"primaryKey;autoIncrement:false"`
	Timestamp  time.Time `json:"timestamp"`
	Follower   *User     `json:"-" gorm:"foreignKey:FollowerID"`
	Followed   *User     `json:"-" gorm:"foreignKey:FollowedID"`
}

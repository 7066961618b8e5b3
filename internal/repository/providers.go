package repository

import (
	"gorm.io/gorm"
)

func NewUserRepository(db *gorm.DB) UserStore {
	return &UserRepository{db: db}
}

func NewRoleRepository(db *gorm.DB) RoleStore {
	return &RoleRepository{db: db}
}

func NewFollowRepository(db *gorm.DB) FollowStore {
	return &FollowRepository{db: db}
}

func NewPostRepository(db *gorm.DB) PostStore {
	return &PostRepository{db: db}
}

func NewCommentRepository(db *gorm.DB) CommentStore {
	return &CommentRepository{db: db}
}

package repository

import "github.com/vshalt/chirp/internal/model"

type PostStore interface {
	Create(post *model.Post) error
	Save(post *model.Post) error
	FindByID(id uint) (*model.Post, error)
	ListAll(offset, limit int) ([]model.Post, int64, error)
	ListByAuthor(authorID uint, offset, limit int) ([]model.Post, int64, error)
	// ListFollowed 返回指定用户时间线里的帖子：所有其关注对象的帖子，
	// 自己的帖子通过自关注边自然包含在内
	ListFollowed(userID uint, offset, limit int) ([]model.Post, int64, error)
	CountByAuthor(authorID uint) (int64, error)
	CountComments(postID uint) (int64, error)
}

type CommentStore interface {
	Create(comment *model.Comment) error
	FindByID(id uint) (*model.Comment, error)
	ListAll(offset, limit int) ([]model.Comment, int64, error)
	ListByPost(postID uint, offset, limit int) ([]model.Comment, int64, error)
	SetDisabled(commentID uint, disabled bool) error
}

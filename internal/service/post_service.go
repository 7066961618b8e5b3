package service

import (
	"errors"
	"strings"
	"time"

	"github.com/vshalt/chirp/internal/common"
	"github.com/vshalt/chirp/internal/model"

	"gorm.io/gorm"
)

// CreatePost 发表新帖子
func (s *PostService) CreatePost(authorID uint, body string) (*model.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, common.NewValidationError("帖子内容不能为空")
	}

	post := model.Post{
		Body:      body,
		Timestamp: time.Now(),
		AuthorID:  authorID,
	}
	if err := s.postStore.Create(&post); err != nil {
		return nil, common.NewInternalError("发布失败，请稍后重试")
	}
	return s.GetPost(post.ID)
}

func (s *PostService) GetPost(postID uint) (*model.Post, error) {
	post, err := s.postStore.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("帖子不存在")
		}
		return nil, common.NewInternalError("查询帖子失败，请稍后重试")
	}
	return post, nil
}

// UpdatePost 编辑帖子正文。只有作者本人或管理员可以编辑。
func (s *PostService) UpdatePost(editor *model.User, postID uint, body string) (*model.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, common.NewValidationError("帖子内容不能为空")
	}

	post, err := s.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if editor == nil || (editor.ID != post.AuthorID && !editor.IsAdministrator()) {
		return nil, common.NewForbiddenError("没有权限编辑该帖子")
	}

	post.Body = body
	if err := s.postStore.Save(post); err != nil {
		return nil, common.NewInternalError("保存失败，请稍后重试")
	}
	return post, nil
}

func (s *PostService) ListPosts(offset, limit int) ([]model.Post, int64, error) {
	posts, total, err := s.postStore.ListAll(offset, limit)
	if err != nil {
		return nil, 0, common.NewInternalError("查询帖子失败，请稍后重试")
	}
	return posts, total, nil
}

func (s *PostService) ListPostsByAuthor(authorID uint, offset, limit int) ([]model.Post, int64, error) {
	posts, total, err := s.postStore.ListByAuthor(authorID, offset, limit)
	if err != nil {
		return nil, 0, common.NewInternalError("查询帖子失败，请稍后重试")
	}
	return posts, total, nil
}

// Timeline 返回用户关注对象（含自己）的帖子流，时间倒序
func (s *PostService) Timeline(userID uint, offset, limit int) ([]model.Post, int64, error) {
	posts, total, err := s.postStore.ListFollowed(userID, offset, limit)
	if err != nil {
		return nil, 0, common.NewInternalError("查询时间线失败，请稍后重试")
	}
	return posts, total, nil
}

func (s *PostService) CommentCount(postID uint) (int64, error) {
	return s.postStore.CountComments(postID)
}

// CreateComment 对帖子发表评论
func (s *PostService) CreateComment(authorID, postID uint, body string) (*model.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, common.NewValidationError("评论内容不能为空")
	}

	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}

	comment := model.Comment{
		Body:      body,
		Timestamp: time.Now(),
		AuthorID:  authorID,
		PostID:    postID,
	}
	if err := s.commentStore.Create(&comment); err != nil {
		return nil, common.NewInternalError("评论失败，请稍后重试")
	}
	return s.GetComment(comment.ID)
}

func (s *PostService) GetComment(commentID uint) (*model.Comment, error) {
	comment, err := s.commentStore.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("评论不存在")
		}
		return nil, common.NewInternalError("查询评论失败，请稍后重试")
	}
	return comment, nil
}

func (s *PostService) ListComments(offset, limit int) ([]model.Comment, int64, error) {
	comments, total, err := s.commentStore.ListAll(offset, limit)
	if err != nil {
		return nil, 0, common.NewInternalError("查询评论失败，请稍后重试")
	}
	return comments, total, nil
}

func (s *PostService) ListPostComments(postID uint, offset, limit int) ([]model.Comment, int64, error) {
	if _, err := s.GetPost(postID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.commentStore.ListByPost(postID, offset, limit)
	if err != nil {
		return nil, 0, common.NewInternalError("查询评论失败，请稍后重试")
	}
	return comments, total, nil
}

// SetCommentDisabled 屏蔽/恢复评论。内容保留，仅翻转标记。
func (s *PostService) SetCommentDisabled(commentID uint, disabled bool) error {
	if err := s.commentStore.SetDisabled(commentID, disabled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewNotFoundError("评论不存在")
		}
		return common.NewInternalError("操作失败，请稍后重试")
	}
	return nil
}

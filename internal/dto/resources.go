package dto

import (
	"fmt"
	"time"

	"github.com/vshalt/chirp/internal/model"
)

// API v1 的 JSON 资源表示。键集合属于对外契约，不要随意增删。

type UserResource struct {
	UserURL       string    `json:"user_url"`
	Username      string    `json:"username"`
	MemberSince   time.Time `json:"member_since"`
	LastSeen      time.Time `json:"last_seen"`
	Posts         string    `json:"posts"`
	FollowedPosts string    `json:"followed_posts"`
	PostsCount    int64     `json:"posts_count"`
}

type PostResource struct {
	URL          string    `json:"url"`
	Body         string    `json:"body"`
	Timestamp    time.Time `json:"timestamp"`
	AuthorURL    string    `json:"author_url"`
	CommentsURL  string    `json:"comments_url"`
	CommentCount int64     `json:"comment_count"`
}

type CommentResource struct {
	URL       string    `json:"url"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	AuthorURL string    `json:"author_url"`
	PostURL   string    `json:"post_url"`
}

func UserURL(userID uint) string {
	return fmt.Sprintf("/api/v1/users/%d", userID)
}

func PostURL(postID uint) string {
	return fmt.Sprintf("/api/v1/posts/%d", postID)
}

func CommentURL(commentID uint) string {
	return fmt.Sprintf("/api/v1/comments/%d", commentID)
}

func NewUserResource(user *model.User, postsCount int64) UserResource {
	return UserResource{
		UserURL:       UserURL(user.ID),
		Username:      user.Username,
		MemberSince:   user.MemberSince,
		LastSeen:      user.LastSeen,
		Posts:         fmt.Sprintf("/api/v1/users/%d/posts", user.ID),
		FollowedPosts: fmt.Sprintf("/api/v1/users/%d/timeline", user.ID),
		PostsCount:    postsCount,
	}
}

func NewPostResource(post *model.Post, commentCount int64) PostResource {
	return PostResource{
		URL:          PostURL(post.ID),
		Body:         post.Body,
		Timestamp:    post.Timestamp,
		AuthorURL:    UserURL(post.AuthorID),
		CommentsURL:  fmt.Sprintf("/api/v1/posts/%d/comments", post.ID),
		CommentCount: commentCount,
	}
}

func NewCommentResource(comment *model.Comment) CommentResource {
	return CommentResource{
		URL:       CommentURL(comment.ID),
		Body:      comment.Body,
		Timestamp: comment.Timestamp,
		AuthorURL: UserURL(comment.AuthorID),
		PostURL:   PostURL(comment.PostID),
	}
}

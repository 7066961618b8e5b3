package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vshalt/chirp/internal/common"
	"github.com/vshalt/chirp/internal/common/httpx"
	"github.com/vshalt/chirp/internal/config"
	"github.com/vshalt/chirp/internal/dto"
	"github.com/vshalt/chirp/internal/middleware"
	"github.com/vshalt/chirp/internal/model"
)

// GetSelfProfile 获取当前登录用户的完整资料
func (h *Handler) GetSelfProfile(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	user, err := h.userService.GetByID(userID)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.profilePayload(user, true))
}

// UpdateSelfProfile 更新当前用户的昵称、地区和简介
func (h *Handler) UpdateSelfProfile(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteServiceError(c, common.NewValidationError("无效的请求参数"))
		return
	}

	user, err := h.userService.UpdateProfile(userID, req.Name, req.Location, req.AboutMe)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "资料更新成功",
		"user":    h.profilePayload(user, true),
	})
}

// GetUserProfile 按用户名查看公开资料
func (h *Handler) GetUserProfile(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Param("username"))
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.profilePayload(user, false))
}

func (h *Handler) profilePayload(user *model.User, includePrivate bool) gin.H {
	payload := gin.H{
		"username":     user.Username,
		"name":         user.Name,
		"location":     user.Location,
		"about_me":     user.AboutMe,
		"member_since": user.MemberSince,
		"last_seen":    user.LastSeen,
	}
	if user.Role != nil {
		payload["role"] = user.Role.Name
	}
	if followers, err := h.followService.FollowerCount(user.ID); err == nil {
		payload["followers_count"] = followers
	}
	if followed, err := h.followService.FollowedCount(user.ID); err == nil {
		payload["followed_count"] = followed
	}
	if postsCount, err := h.userService.PostsCount(user.ID); err == nil {
		payload["posts_count"] = postsCount
	}
	if includePrivate {
		payload["email"] = user.Email
		payload["confirmed"] = user.Confirmed
	}
	return payload
}

// Follow 关注指定用户
func (h *Handler) Follow(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	target, err := h.followService.Follow(userID, c.Param("username"))
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "关注成功",
		"username": target.Username,
	})
}

// Unfollow 取消关注指定用户
func (h *Handler) Unfollow(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	target, err := h.followService.Unfollow(userID, c.Param("username"))
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "已取消关注",
		"username": target.Username,
	})
}

// Followers 分页列出某用户的粉丝
func (h *Handler) Followers(c *gin.Context) {
	username := c.Param("username")
	page := dto.ParsePage(c, config.Get().Pagination.FollowersPerPage)

	follows, total, err := h.followService.Followers(username, page.Offset(), page.PerPage)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(follows))
	for _, f := range follows {
		entry := gin.H{"timestamp": f.Timestamp}
		if f.Follower != nil {
			entry["username"] = f.Follower.Username
		}
		items = append(items, entry)
	}

	c.JSON(http.StatusOK, dto.ListResponse("followers", items, "/users/"+username+"/followers", page, total))
}

// Followed 分页列出某用户关注的人
func (h *Handler) Followed(c *gin.Context) {
	username := c.Param("username")
	page := dto.ParsePage(c, config.Get().Pagination.FollowersPerPage)

	follows, total, err := h.followService.Followed(username, page.Offset(), page.PerPage)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	items := make([]gin.H, 0, len(follows))
	for _, f := range follows {
		entry := gin.H{"timestamp": f.Timestamp}
		if f.Followed != nil {
			entry["username"] = f.Followed.Username
		}
		items = append(items, entry)
	}

	c.JSON(http.StatusOK, dto.ListResponse("followed", items, "/users/"+username+"/followed", page, total))
}

// DeleteSelf 注销当前账号，级联删除帖子、评论与关注关系
func (h *Handler) DeleteSelf(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	if err := h.userService.DeleteUser(userID); err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	middleware.ClearConfirmedCache(userID)
	c.JSON(http.StatusOK, gin.H{"message": "账号已注销"})
}

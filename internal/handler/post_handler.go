package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vshalt/chirp/internal/common"
	"github.com/vshalt/chirp/internal/common/httpx"
	"github.com/vshalt/chirp/internal/config"
	"github.com/vshalt/chirp/internal/dto"
	"github.com/vshalt/chirp/internal/middleware"
	"github.com/vshalt/chirp/internal/model"
)

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httpx.WriteServiceError(c, common.NewValidationError("无效的资源 ID"))
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) postResources(posts []model.Post) []dto.PostResource {
	resources := make([]dto.PostResource, 0, len(posts))
	for i := range posts {
		count, err := h.postService.CommentCount(posts[i].ID)
		if err != nil {
			count = 0
		}
		resources = append(resources, dto.NewPostResource(&posts[i], count))
	}
	return resources
}

// APIGetUser 获取用户资源表示
func (h *Handler) APIGetUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	postsCount, err := h.userService.PostsCount(user.ID)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResource(user, postsCount))
}

// APIListUserPosts 分页列出某用户发表的帖子
func (h *Handler) APIListUserPosts(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.userService.GetByID(userID); err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	page := dto.ParsePage(c, config.Get().Pagination.PostsPerPage)
	posts, total, err := h.postService.ListPostsByAuthor(userID, page.Offset(), page.PerPage)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	basePath := "/api/v1/users/" + strconv.FormatUint(uint64(userID), 10) + "/posts"
	c.JSON(http.StatusOK, dto.ListResponse("posts", h.postResources(posts), basePath, page, total))
}

// APIListUserFollowedPosts 分页列出某用户关注时间线上的帖子
func (h *Handler) APIListUserFollowedPosts(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.userService.GetByID(userID); err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	page := dto.ParsePage(c, config.Get().Pagination.PostsPerPage)
	posts, total, err := h.postService.Timeline(userID, page.Offset(), page.PerPage)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	basePath := "/api/v1/users/" + strconv.FormatUint(uint64(userID), 10) + "/timeline"
	c.JSON(http.StatusOK, dto.ListResponse("posts", h.postResources(posts), basePath, page, total))
}

// APIListPosts 分页列出全部帖子
func (h *Handler) APIListPosts(c *gin.Context) {
	page := dto.ParsePage(c, config.Get().Pagination.PostsPerPage)

	posts, total, err := h.postService.ListPosts(page.Offset(), page.PerPage)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse("posts", h.postResources(posts), "/api/v1/posts", page, total))
}

// APICreatePost 发表新帖子
func (h *Handler) APICreatePost(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteServiceError(c, common.NewValidationError("无效的请求参数"))
		return
	}

	post, err := h.postService.CreatePost(userID, req.Body)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.Header("Location", dto.PostURL(post.ID))
	c.JSON(http.StatusCreated, dto.NewPostResource(post, 0))
}

// APIGetPost 获取单个帖子
func (h *Handler) APIGetPost(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	post, err := h.postService.GetPost(postID)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	count, err := h.postService.CommentCount(post.ID)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPostResource(post, count))
}

// APIUpdatePost 编辑帖子，仅作者本人或管理员可操作
func (h *Handler) APIUpdatePost(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteServiceError(c, common.NewValidationError("无效的请求参数"))
		return
	}

	editor := middleware.CurrentUser(c, h.userStore)
	if editor == nil {
		httpx.WriteServiceError(c, common.NewUnauthorizedError("登录状态已失效"))
		return
	}

	post, err := h.postService.UpdatePost(editor, postID, req.Body)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	count, err := h.postService.CommentCount(post.ID)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPostResource(post, count))
}

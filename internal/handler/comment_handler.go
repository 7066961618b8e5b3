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

func commentResources(comments []model.Comment) []dto.CommentResource {
	resources := make([]dto.CommentResource, 0, len(comments))
	for i := range comments {
		resources = append(resources, dto.NewCommentResource(&comments[i]))
	}
	return resources
}

// APIListComments 分页列出全站评论，供协管员巡查
func (h *Handler) APIListComments(c *gin.Context) {
	page := dto.ParsePage(c, config.Get().Pagination.CommentsPerPage)

	comments, total, err := h.postService.ListComments(page.Offset(), page.PerPage)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse("comments", commentResources(comments), "/api/v1/comments", page, total))
}

// APIGetComment 获取单条评论
func (h *Handler) APIGetComment(c *gin.Context) {
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.postService.GetComment(commentID)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCommentResource(comment))
}

// APIListPostComments 分页列出某帖子下的评论
func (h *Handler) APIListPostComments(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.postService.GetPost(postID); err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	page := dto.ParsePage(c, config.Get().Pagination.CommentsPerPage)
	comments, total, err := h.postService.ListPostComments(postID, page.Offset(), page.PerPage)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse("comments", commentResources(comments), dto.PostURL(postID)+"/comments", page, total))
}

// APICreatePostComment 在帖子下发表评论
func (h *Handler) APICreatePostComment(c *gin.Context) {
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID := c.GetUint(middleware.ContextUserID)

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteServiceError(c, common.NewValidationError("无效的请求参数"))
		return
	}

	comment, err := h.postService.CreateComment(userID, postID, req.Body)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.Header("Location", dto.CommentURL(comment.ID))
	c.JSON(http.StatusCreated, dto.NewCommentResource(comment))
}

// APIDisableComment 屏蔽评论（协管操作）
func (h *Handler) APIDisableComment(c *gin.Context) {
	h.setCommentDisabled(c, true, "评论已屏蔽")
}

// APIEnableComment 恢复评论展示（协管操作）
func (h *Handler) APIEnableComment(c *gin.Context) {
	h.setCommentDisabled(c, false, "评论已恢复")
}

func (h *Handler) setCommentDisabled(c *gin.Context, disabled bool, message string) {
	commentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.postService.SetCommentDisabled(commentID, disabled); err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/vshalt/chirp/internal/handler"
	"github.com/vshalt/chirp/internal/middleware"
	"github.com/vshalt/chirp/internal/model"
	"github.com/vshalt/chirp/internal/repository"
	"github.com/vshalt/chirp/internal/service"
)

// registerResourceRoutes 注册 /api/v1 资源路由（用户、帖子、评论）
func registerResourceRoutes(api *gin.RouterGroup, h *handler.Handler, userService *service.UserService, userStore repository.UserStore) {
	v1 := api.Group("/v1")

	// 只读资源：无需登录
	v1.GET("/users/:id", h.APIGetUser)
	v1.GET("/users/:id/posts", h.APIListUserPosts)
	v1.GET("/posts", h.APIListPosts)
	v1.GET("/posts/:id", h.APIGetPost)
	v1.GET("/posts/:id/comments", h.APIListPostComments)
	v1.GET("/comments/:id", h.APIGetComment)

	authed := v1.Group("")
	authed.Use(middleware.JWTAuth())
	authed.Use(middleware.LastSeen(userService))
	authed.Use(middleware.ConfirmedCheck(userStore))

	authed.GET("/users/:id/timeline", h.APIListUserFollowedPosts)

	write := authed.Group("")
	write.Use(middleware.PermissionRequired(userStore, model.PermissionWrite))
	write.POST("/posts", h.APICreatePost)
	write.PUT("/posts/:id", h.APIUpdatePost)

	comment := authed.Group("")
	comment.Use(middleware.PermissionRequired(userStore, model.PermissionComment))
	comment.POST("/posts/:id/comments", h.APICreatePostComment)

	moderate := authed.Group("")
	moderate.Use(middleware.PermissionRequired(userStore, model.PermissionModerate))
	moderate.GET("/comments", h.APIListComments)
	moderate.PATCH("/comments/:id/disable", h.APIDisableComment)
	moderate.PATCH("/comments/:id/enable", h.APIEnableComment)
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/vshalt/chirp/internal/handler"
	"github.com/vshalt/chirp/internal/middleware"
	"github.com/vshalt/chirp/internal/model"
	"github.com/vshalt/chirp/internal/repository"
	"github.com/vshalt/chirp/internal/service"
)

func registerUserRoutes(api *gin.RouterGroup, h *handler.Handler, userService *service.UserService, userStore repository.UserStore) {
	// 公开资料与关注列表
	api.GET("/users/:username/profile", h.GetUserProfile)
	api.GET("/users/:username/followers", h.Followers)
	api.GET("/users/:username/followed", h.Followed)

	userGroup := api.Group("/user")
	userGroup.Use(middleware.JWTAuth())
	userGroup.Use(middleware.LastSeen(userService))

	userGroup.GET("/profile", h.GetSelfProfile)
	userGroup.PATCH("/profile", middleware.ConfirmedCheck(userStore), h.UpdateSelfProfile)
	userGroup.PATCH("/password", h.UpdatePassword)
	userGroup.POST("/email", middleware.ConfirmedCheck(userStore), h.RequestEmailChange)
	userGroup.DELETE("", h.DeleteSelf)

	follow := api.Group("/users/:username")
	follow.Use(middleware.JWTAuth())
	follow.Use(middleware.ConfirmedCheck(userStore))
	follow.Use(middleware.PermissionRequired(userStore, model.PermissionFollow))
	follow.POST("/follow", h.Follow)
	follow.DELETE("/follow", h.Unfollow)
}

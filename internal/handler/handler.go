package handler

import (
	"github.com/vshalt/chirp/internal/repository"
	"github.com/vshalt/chirp/internal/service"
)

type Handler struct {
	authService   *service.AuthService
	userService   *service.UserService
	followService *service.FollowService
	postService   *service.PostService
	userStore     repository.UserStore
}

func NewHandler(
	authService *service.AuthService,
	userService *service.UserService,
	followService *service.FollowService,
	postService *service.PostService,
	userStore repository.UserStore,
) *Handler {
	return &Handler{
		authService:   authService,
		userService:   userService,
		followService: followService,
		postService:   postService,
		userStore:     userStore,
	}
}

package service

import (
	repo "github.com/vshalt/chirp/internal/repository"
)

type AuthService struct {
	userStore    repo.UserStore
	roleStore    repo.RoleStore
	followStore  repo.FollowStore
	userService  *UserService
	emailService *EmailService
}

type UserService struct {
	userStore   repo.UserStore
	followStore repo.FollowStore
	postStore   repo.PostStore
}

type FollowService struct {
	followStore repo.FollowStore
	userStore   repo.UserStore
}

type PostService struct {
	postStore    repo.PostStore
	commentStore repo.CommentStore
	userStore    repo.UserStore
}

type EmailService struct{}

type FakeService struct {
	userStore   repo.UserStore
	roleStore   repo.RoleStore
	followStore repo.FollowStore
	postStore   repo.PostStore
}

func NewAuthService(userStore repo.UserStore, roleStore repo.RoleStore, followStore repo.FollowStore, userService *UserService, emailService *EmailService) *AuthService {
	return &AuthService{
		userStore:    userStore,
		roleStore:    roleStore,
		followStore:  followStore,
		userService:  userService,
		emailService: emailService,
	}
}

func NewUserService(userStore repo.UserStore, followStore repo.FollowStore, postStore repo.PostStore) *UserService {
	return &UserService{userStore: userStore, followStore: followStore, postStore: postStore}
}

func NewFollowService(followStore repo.FollowStore, userStore repo.UserStore) *FollowService {
	return &FollowService{followStore: followStore, userStore: userStore}
}

func NewPostService(postStore repo.PostStore, commentStore repo.CommentStore, userStore repo.UserStore) *PostService {
	return &PostService{postStore: postStore, commentStore: commentStore, userStore: userStore}
}

func NewEmailService() *EmailService {
	return &EmailService{}
}

func NewFakeService(userStore repo.UserStore, roleStore repo.RoleStore, followStore repo.FollowStore, postStore repo.PostStore) *FakeService {
	return &FakeService{
		userStore:   userStore,
		roleStore:   roleStore,
		followStore: followStore,
		postStore:   postStore,
	}
}

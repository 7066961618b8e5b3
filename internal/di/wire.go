//go:build wireinject
// +build wireinject

package di

import (
	"github.com/vshalt/chirp/internal/handler"
	"github.com/vshalt/chirp/internal/repository"
	"github.com/vshalt/chirp/internal/router"
	"github.com/vshalt/chirp/internal/service"

	"github.com/google/wire"
	"gorm.io/gorm"
)

func InitializeApplication(gormDB *gorm.DB) (*Application, error) {
	wire.Build(
		repository.NewUserRepository,
		repository.NewRoleRepository,
		repository.NewFollowRepository,
		repository.NewPostRepository,
		repository.NewCommentRepository,
		service.NewEmailService,
		service.NewUserService,
		service.NewAuthService,
		service.NewFollowService,
		service.NewPostService,
		service.NewFakeService,
		handler.NewHandler,
		router.NewRouter,
		NewApplication,
	)
	return nil, nil
}

package di

import (
	"github.com/vshalt/chirp/internal/router"
	"github.com/vshalt/chirp/internal/service"
)

type Application struct {
	Router      *router.Router
	FakeService *service.FakeService
}

func NewApplication(r *router.Router, fake *service.FakeService) *Application {
	return &Application{
		Router:      r,
		FakeService: fake,
	}
}

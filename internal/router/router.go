package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vshalt/chirp/internal/config"
	"github.com/vshalt/chirp/internal/handler"
	"github.com/vshalt/chirp/internal/middleware"
	"github.com/vshalt/chirp/internal/repository"
	"github.com/vshalt/chirp/internal/service"
)

type Router struct {
	handler     *handler.Handler
	userService *service.UserService
	userStore   repository.UserStore
}

func NewRouter(h *handler.Handler, userService *service.UserService, userStore repository.UserStore) *Router {
	return &Router{
		handler:     h,
		userService: userService,
		userStore:   userStore,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())
	r.Use(corsMiddleware())

	api := r.Group("/api")

	// 认证限流：在多个域路由中复用同一个实例，保持行为一致
	authLimiter := middleware.AuthRateLimit()

	registerAuthRoutes(api, authLimiter, rt.handler)
	registerUserRoutes(api, rt.handler, rt.userService, rt.userStore)
	registerResourceRoutes(api, rt.handler, rt.userService, rt.userStore)
}

func corsMiddleware() gin.HandlerFunc {
	cfg := config.Get()
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	return cors.New(corsConfig)
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/vshalt/chirp/internal/handler"
	"github.com/vshalt/chirp/internal/middleware"
)

func registerAuthRoutes(api *gin.RouterGroup, authLimiter gin.HandlerFunc, h *handler.Handler) {
	api.POST("/register", authLimiter, h.Register)
	api.POST("/login", authLimiter, h.Login)

	api.POST("/auth/password/reset/request", authLimiter, h.RequestPasswordReset)
	api.POST("/auth/password/reset", h.ResetPassword)
	api.POST("/auth/email-change-verify", h.VerifyEmailChange)

	// 确认与重发需要登录态，但不要求账号已确认
	authed := api.Group("/auth")
	authed.Use(middleware.JWTAuth())
	authed.POST("/confirm", h.Confirm)
	authed.POST("/confirm/resend", h.ResendConfirmation)
}

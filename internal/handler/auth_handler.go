package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vshalt/chirp/internal/common"
	"github.com/vshalt/chirp/internal/common/httpx"
	"github.com/vshalt/chirp/internal/dto"
	"github.com/vshalt/chirp/internal/middleware"
)

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteServiceError(c, common.NewValidationError("无效的请求参数"))
		return
	}

	user, err := h.authService.RegisterUser(req.Username, req.Email, req.Password)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "注册成功，请前往邮箱完成确认",
		"username": user.Username,
	})
}

// Login 用户登录，返回登录令牌
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteServiceError(c, common.NewValidationError("无效的请求参数"))
		return
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "登录成功",
		"token":     token,
		"username":  user.Username,
		"confirmed": user.Confirmed,
	})
}

// Confirm 校验确认令牌并将当前账号标记为已确认
func (h *Handler) Confirm(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteServiceError(c, common.NewValidationError("无效的请求参数"))
		return
	}

	already, err := h.authService.Confirm(userID, req.Token)
	if err != nil {
		httpx.WriteServiceError(c, err)
		return
	}

	middleware.ClearConfirmedCache(userID)

	if already {
		c.JSON(http.StatusOK, gin.H{"message": "账号已确认，无需重复操作"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "账号确认成功"})
}

// ResendConfirmation 重新发送确认邮件
func (h *Handler) ResendConfirmation(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	if err := h.authService.ResendConfirmation(userID); err != nil {
		httpx.WriteServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "确认邮件已重新发送"})
}

// RequestPasswordReset 发起密码重置，无论邮箱是否存在都返回成功
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var req dto.RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteServiceError(c, common.NewValidationError("无效的请求参数"))
		return
	}

	if err := h.authService.RequestPasswordReset(req.Email); err != nil {
		httpx.WriteServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "如果该邮箱已注册，重置邮件稍后送达"})
}

// ResetPassword 使用重置令牌设置新密码
func (h *Handler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteServiceError(c, common.NewValidationError("无效的请求参数"))
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		httpx.WriteServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "密码重置成功，请使用新密码登录"})
}

// UpdatePassword 已登录用户修改密码
func (h *Handler) UpdatePassword(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteServiceError(c, common.NewValidationError("无效的请求参数"))
		return
	}

	if err := h.authService.UpdatePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		httpx.WriteServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "密码修改成功"})
}

// RequestEmailChange 发起换绑邮箱，确认邮件发送至新地址
func (h *Handler) RequestEmailChange(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req dto.RequestEmailChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteServiceError(c, common.NewValidationError("无效的请求参数"))
		return
	}

	if err := h.authService.RequestEmailChange(userID, req.NewEmail, req.Password); err != nil {
		httpx.WriteServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "确认邮件已发送至新邮箱"})
}

// VerifyEmailChange 校验换绑令牌并更新邮箱
func (h *Handler) VerifyEmailChange(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteServiceError(c, common.NewValidationError("无效的请求参数"))
		return
	}

	if err := h.authService.VerifyEmailChange(req.Token); err != nil {
		httpx.WriteServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "邮箱更换成功"})
}

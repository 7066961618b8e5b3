package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vshalt/chirp/internal/common"
	"github.com/vshalt/chirp/internal/config"
	"github.com/vshalt/chirp/internal/model"
	"github.com/vshalt/chirp/internal/utils"

	"gorm.io/gorm"
)

const payloadKeyNewEmail = "new_email"

// LoginUser 执行登录鉴权并返回登录令牌。
// 凭据错误时统一返回同一条提示，不泄露邮箱是否注册。
func (s *AuthService) LoginUser(email, password string) (string, *model.User, error) {
	user, err := s.userStore.FindByEmail(email)
	if err != nil {
		return "", nil, common.NewUnauthorizedError("邮箱或密码错误")
	}

	if !s.userService.VerifyPassword(user, password) {
		return "", nil, common.NewUnauthorizedError("邮箱或密码错误")
	}

	token, err := s.IssueLoginToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) IssueLoginToken(user *model.User) (string, error) {
	cfg := config.Get()
	token, err := utils.GenerateLoginToken(user.ID, user.Username, time.Hour*time.Duration(cfg.JWT.ExpirationHours))
	if err != nil {
		return "", common.NewInternalError("登录失败，请稍后重试")
	}
	return token, nil
}

// RegisterUser 注册新用户并异步发送确认邮件。
// 新用户挂默认角色，初始为未确认状态。
func (s *AuthService) RegisterUser(username, email, password string) (*model.User, error) {
	// 邮箱统一小写落库
	email = strings.ToLower(strings.TrimSpace(email))

	if ok, msg := utils.ValidateUsername(username); !ok {
		return nil, common.NewValidationError(msg)
	}
	if ok, msg := utils.ValidateEmail(email); !ok {
		return nil, common.NewValidationError(msg)
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return nil, common.NewValidationError(msg)
	}

	if !config.Get().App.AllowRegister {
		return nil, common.NewForbiddenError("注册功能已关闭")
	}

	usernameTaken, err := s.userService.IsUsernameTaken(username, nil)
	if err != nil {
		return nil, common.NewInternalError("注册失败，请稍后重试")
	}
	if usernameTaken {
		return nil, common.NewConflictError("用户名已存在")
	}

	emailTaken, err := s.userService.IsEmailTaken(email, nil)
	if err != nil {
		return nil, common.NewInternalError("注册失败，请稍后重试")
	}
	if emailTaken {
		return nil, common.NewConflictError("邮箱已被注册")
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, common.NewInternalError("密码加密失败")
	}

	defaultRole, err := s.roleStore.FindDefault()
	if err != nil {
		return nil, common.NewInternalError("注册失败，请稍后重试")
	}

	// 配置指定的管理员邮箱注册时直接获得管理员角色
	if adminEmail := config.Get().App.AdminEmail; adminEmail != "" &&
		strings.EqualFold(email, adminEmail) {
		adminRole, err := s.roleStore.FindByName("Administrator")
		if err != nil {
			return nil, common.NewInternalError("注册失败，请稍后重试")
		}
		defaultRole = adminRole
	}

	now := time.Now()
	newUser := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Confirmed:    false,
		RoleID:       defaultRole.ID,
		MemberSince:  now,
		LastSeen:     now,
	}

	if err := s.userStore.Create(&newUser); err != nil {
		return nil, common.NewInternalError("注册失败，请稍后重试")
	}
	newUser.Role = defaultRole

	if err := s.sendConfirmationEmail(&newUser); err != nil {
		return nil, err
	}

	return &newUser, nil
}

// Confirm 用确认令牌把账号置为已确认。
// 已确认账号直接返回成功，不再校验令牌之外的任何状态。
func (s *AuthService) Confirm(userID uint, token string) (bool, error) {
	user, err := s.userService.GetByID(userID)
	if err != nil {
		return false, err
	}

	if user.Confirmed {
		return true, nil
	}

	claims, err := utils.ParseActionToken(token, utils.PurposeConfirm)
	if err != nil || claims.ID != userID {
		return false, common.NewValidationError("确认链接已失效或不正确")
	}

	user.Confirmed = true
	if err := s.userStore.Save(user); err != nil {
		return false, common.NewInternalError("确认失败，请稍后重试")
	}

	// 自关注边：仅服务于时间线联结查询，随首次确认写入一次
	selfEdge := model.Follow{FollowerID: user.ID, FollowedID: user.ID, Timestamp: time.Now()}
	if err := s.followStore.Create(&selfEdge); err != nil {
		return false, common.NewInternalError("确认失败，请稍后重试")
	}
	return false, nil
}

// ResendConfirmation 重新发送确认邮件
func (s *AuthService) ResendConfirmation(userID uint) error {
	user, err := s.userService.GetByID(userID)
	if err != nil {
		return err
	}
	if user.Confirmed {
		return common.NewConflictError("账号已确认，无需重复验证")
	}
	return s.sendConfirmationEmail(user)
}

// RequestPasswordReset 发起忘记密码流程并异步发送重置邮件。
// 邮箱不存在时也返回成功，防止探测注册邮箱。
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.userStore.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return common.NewInternalError("生成重置链接失败，请稍后重试")
	}

	token, err := utils.GenerateActionToken(utils.PurposeReset, user.ID, nil, s.actionTokenTTL())
	if err != nil {
		return common.NewInternalError("生成重置链接失败，请稍后重试")
	}

	resetURL := s.buildActionURL("/auth/password/reset", token)
	if s.emailService.ShouldSendEmail() {
		go func() {
			_ = s.emailService.SendPasswordResetEmail(user.Email, user.Username, resetURL)
		}()
	}
	return nil
}

// ResetPassword 使用重置令牌设置新密码。
// 令牌无效（过期/篡改/用途不符）时密码保持不变。
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if ok, msg := utils.ValidatePassword(newPassword); !ok {
		return common.NewValidationError(msg)
	}

	claims, err := utils.ParseActionToken(token, utils.PurposeReset)
	if err != nil {
		return common.NewValidationError("重置链接无效或已过期")
	}

	user, err := s.userService.GetByID(claims.ID)
	if err != nil {
		return common.NewValidationError("重置链接无效或已过期")
	}

	return s.userService.SetPassword(user, newPassword)
}

// UpdatePassword 已登录用户修改密码，需要验证旧密码
func (s *AuthService) UpdatePassword(userID uint, oldPassword, newPassword string) error {
	if ok, msg := utils.ValidatePassword(newPassword); !ok {
		return common.NewValidationError(msg)
	}

	user, err := s.userService.GetByID(userID)
	if err != nil {
		return err
	}
	if !s.userService.VerifyPassword(user, oldPassword) {
		return common.NewUnauthorizedError("原密码错误")
	}

	return s.userService.SetPassword(user, newPassword)
}

// RequestEmailChange 发起换绑邮箱流程。新地址写入令牌负载，
// 确认邮件发往新地址，点击后才真正生效。
func (s *AuthService) RequestEmailChange(userID uint, newEmail, password string) error {
	if ok, msg := utils.ValidateEmail(newEmail); !ok {
		return common.NewValidationError(msg)
	}

	user, err := s.userService.GetByID(userID)
	if err != nil {
		return err
	}
	if !s.userService.VerifyPassword(user, password) {
		return common.NewUnauthorizedError("密码错误")
	}

	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	emailTaken, err := s.userService.IsEmailTaken(newEmail, &userID)
	if err != nil {
		return common.NewInternalError("邮箱修改失败，请稍后重试")
	}
	if emailTaken {
		return common.NewConflictError("该邮箱已被其他用户占用")
	}

	payload := map[string]string{payloadKeyNewEmail: newEmail}
	token, err := utils.GenerateActionToken(utils.PurposeEmailChange, userID, payload, s.actionTokenTTL())
	if err != nil {
		return common.NewInternalError("邮箱修改失败，请稍后重试")
	}

	verifyURL := s.buildActionURL("/auth/email-change/verify", token)
	if s.emailService.ShouldSendEmail() {
		go func() {
			_ = s.emailService.SendEmailChangeEmail(newEmail, user.Username, verifyURL)
		}()
	}
	return nil
}

// VerifyEmailChange 验证换绑令牌并更新邮箱。
// 令牌有效但新地址在此期间被别人注册时拒绝变更，原邮箱保持不变。
func (s *AuthService) VerifyEmailChange(token string) error {
	claims, err := utils.ParseActionToken(token, utils.PurposeEmailChange)
	if err != nil {
		return common.NewValidationError("验证链接已失效或不正确")
	}

	newEmail := claims.Payload[payloadKeyNewEmail]
	if newEmail == "" {
		return common.NewValidationError("验证链接已失效或不正确")
	}

	user, err := s.userService.GetByID(claims.ID)
	if err != nil {
		return common.NewValidationError("验证链接已失效或不正确")
	}

	excludeID := claims.ID
	emailTaken, err := s.userService.IsEmailTaken(newEmail, &excludeID)
	if err != nil {
		return common.NewInternalError("邮箱修改失败，请稍后重试")
	}
	if emailTaken {
		return common.NewConflictError("新邮箱已被其他用户占用，无法修改")
	}

	user.Email = newEmail
	if err := s.userStore.Save(user); err != nil {
		return common.NewInternalError("邮箱修改失败，请稍后重试")
	}
	return nil
}

func (s *AuthService) sendConfirmationEmail(user *model.User) error {
	token, err := utils.GenerateActionToken(utils.PurposeConfirm, user.ID, nil, s.actionTokenTTL())
	if err != nil {
		return common.NewInternalError("生成确认链接失败，请稍后重试")
	}

	confirmURL := s.buildActionURL("/auth/confirm", token)
	if s.emailService.ShouldSendEmail() {
		go func() {
			_ = s.emailService.SendConfirmationEmail(user.Email, user.Username, confirmURL)
		}()
	}
	return nil
}

func (s *AuthService) actionTokenTTL() time.Duration {
	minutes := config.Get().JWT.ActionTokenMinutes
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

func (s *AuthService) buildActionURL(path, token string) string {
	baseURL := strings.TrimRight(config.Get().App.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost"
	}
	return fmt.Sprintf("%s%s?token=%s", baseURL, path, token)
}

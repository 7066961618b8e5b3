package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vshalt/chirp/internal/config"
	"github.com/vshalt/chirp/internal/middleware"
	"github.com/vshalt/chirp/internal/model"
	"github.com/vshalt/chirp/internal/repository"
	"github.com/vshalt/chirp/internal/service"
	"github.com/vshalt/chirp/internal/testutils"
	"github.com/vshalt/chirp/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	testHandler       *Handler
	testAuthService   *service.AuthService
	testUserService   *service.UserService
	testFollowService *service.FollowService
	testPostService   *service.PostService
	testUserStore     repository.UserStore
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.InitConfig("")

	gdb := testutils.SetupDB(t)

	testUserStore = repository.NewUserRepository(gdb)
	roleStore := repository.NewRoleRepository(gdb)
	followStore := repository.NewFollowRepository(gdb)
	postStore := repository.NewPostRepository(gdb)
	commentStore := repository.NewCommentRepository(gdb)

	emailService := service.NewEmailService()
	testUserService = service.NewUserService(testUserStore, followStore, postStore)
	testAuthService = service.NewAuthService(testUserStore, roleStore, followStore, testUserService, emailService)
	testFollowService = service.NewFollowService(followStore, testUserStore)
	testPostService = service.NewPostService(postStore, commentStore, testUserStore)

	testHandler = NewHandler(testAuthService, testUserService, testFollowService, testPostService, testUserStore)
	return gdb
}

// createConfirmedUser 注册并确认一个用户，返回其登录令牌
func createConfirmedUser(t *testing.T, username, email string) (*model.User, string) {
	t.Helper()

	user, err := testAuthService.RegisterUser(username, email, "password1")
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	confirmToken, err := utils.GenerateActionToken(utils.PurposeConfirm, user.ID, nil, time.Hour)
	if err != nil {
		t.Fatalf("生成确认令牌失败: %v", err)
	}
	if _, err := testAuthService.Confirm(user.ID, confirmToken); err != nil {
		t.Fatalf("确认用户失败: %v", err)
	}
	user.Confirmed = true
	middleware.ClearConfirmedCache(user.ID)

	token, err := testAuthService.IssueLoginToken(user)
	if err != nil {
		t.Fatalf("签发令牌失败: %v", err)
	}
	return user, token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("序列化请求失败: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var m map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("响应解析失败: %v body=%s", err, w.Body.String())
	}
	return m
}

package service

import (
	"testing"
	"time"

	"github.com/vshalt/chirp/internal/config"
	"github.com/vshalt/chirp/internal/model"
	"github.com/vshalt/chirp/internal/repository"
	"github.com/vshalt/chirp/internal/testutils"
	"github.com/vshalt/chirp/internal/utils"

	"gorm.io/gorm"
)

// testEnv 聚合一套完整的服务与仓储，跑在独立的内存数据库上。
type testEnv struct {
	db            *gorm.DB
	userStore     repository.UserStore
	roleStore     repository.RoleStore
	followStore   repository.FollowStore
	postStore     repository.PostStore
	commentStore  repository.CommentStore
	authService   *AuthService
	userService   *UserService
	followService *FollowService
	postService   *PostService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	config.InitConfig("")

	gdb := testutils.SetupDB(t)

	userStore := repository.NewUserRepository(gdb)
	roleStore := repository.NewRoleRepository(gdb)
	followStore := repository.NewFollowRepository(gdb)
	postStore := repository.NewPostRepository(gdb)
	commentStore := repository.NewCommentRepository(gdb)

	emailService := NewEmailService()
	userService := NewUserService(userStore, followStore, postStore)
	authService := NewAuthService(userStore, roleStore, followStore, userService, emailService)
	followService := NewFollowService(followStore, userStore)
	postService := NewPostService(postStore, commentStore, userStore)

	return &testEnv{
		db:            gdb,
		userStore:     userStore,
		roleStore:     roleStore,
		followStore:   followStore,
		postStore:     postStore,
		commentStore:  commentStore,
		authService:   authService,
		userService:   userService,
		followService: followService,
		postService:   postService,
	}
}

// mustRegister 注册并走完整确认流程，返回已确认的测试用户
func (env *testEnv) mustRegister(t *testing.T, username, email, password string) *model.User {
	t.Helper()

	user, err := env.authService.RegisterUser(username, email, password)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	token, err := utils.GenerateActionToken(utils.PurposeConfirm, user.ID, nil, time.Hour)
	if err != nil {
		t.Fatalf("confirm token %s: %v", username, err)
	}
	if _, err := env.authService.Confirm(user.ID, token); err != nil {
		t.Fatalf("confirm %s: %v", username, err)
	}
	user.Confirmed = true
	return user
}

// mustAssignRole 把用户切换到指定角色
func (env *testEnv) mustAssignRole(t *testing.T, user *model.User, roleName string) {
	t.Helper()

	role, err := env.roleStore.FindByName(roleName)
	if err != nil {
		t.Fatalf("find role %s: %v", roleName, err)
	}
	user.RoleID = role.ID
	user.Role = role
	if err := env.userStore.Save(user); err != nil {
		t.Fatalf("assign role: %v", err)
	}
}

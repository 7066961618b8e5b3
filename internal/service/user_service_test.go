package service

import (
	"testing"
	"time"

	"github.com/vshalt/chirp/internal/common"
	"github.com/vshalt/chirp/internal/model"
)

func TestGetByID_And_GetByUsername(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.mustRegister(t, "alice", "alice@example.com", "password1")

	byID, err := env.userService.GetByID(alice.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Username != "alice" {
		t.Fatalf("unexpected user: %+v", byID)
	}
	if byID.Role == nil {
		t.Fatalf("role should be preloaded")
	}

	byName, err := env.userService.GetByUsername("alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byName.ID != alice.ID {
		t.Fatalf("id mismatch: %d vs %d", byName.ID, alice.ID)
	}

	_, err = env.userService.GetByID(9999)
	if serr, ok := common.AsServiceError(err); !ok || serr.Code != common.ErrorCodeNotFound {
		t.Fatalf("missing user should be not found, got %v", err)
	}
	_, err = env.userService.GetByUsername("ghost")
	if serr, ok := common.AsServiceError(err); !ok || serr.Code != common.ErrorCodeNotFound {
		t.Fatalf("missing username should be not found, got %v", err)
	}
}

func TestEmailStoredLowercase(t *testing.T) {
	env := setupTestEnv(t)

	user, err := env.authService.RegisterUser("alice", "Alice@Example.COM", "password1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email should be lowercased on save, got %q", user.Email)
	}

	// 大小写混写也能命中查询
	taken, err := env.userService.IsEmailTaken("ALICE@example.com", nil)
	if err != nil || !taken {
		t.Fatalf("case-insensitive lookup failed: taken=%v err=%v", taken, err)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.mustRegister(t, "alice", "alice@example.com", "password1")

	updated, err := env.userService.UpdateProfile(alice.ID, "Alice Liddell", "Wonderland", "down the rabbit hole")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "Alice Liddell" || updated.Location != "Wonderland" {
		t.Fatalf("profile not applied: %+v", updated)
	}

	// 最后写入生效：空值同样覆盖
	updated, err = env.userService.UpdateProfile(alice.ID, "", "", "")
	if err != nil {
		t.Fatalf("UpdateProfile clear: %v", err)
	}
	if updated.Name != "" || updated.AboutMe != "" {
		t.Fatalf("last write should win, got %+v", updated)
	}
}

func TestPing_UpdatesLastSeen(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.mustRegister(t, "alice", "alice@example.com", "password1")

	// 把 last_seen 拨回过去
	past := time.Now().Add(-time.Hour)
	if err := env.db.Model(&model.User{}).Where("id = ?", alice.ID).
		Update("last_seen", past).Error; err != nil {
		t.Fatalf("rewind last_seen: %v", err)
	}

	if err := env.userService.Ping(alice.ID); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	reloaded, _ := env.userService.GetByID(alice.ID)
	if !reloaded.LastSeen.After(past.Add(30 * time.Minute)) {
		t.Fatalf("last_seen not refreshed: %v", reloaded.LastSeen)
	}
}

func TestDeleteUser_CascadesContent(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.mustRegister(t, "alice", "alice@example.com", "password1")
	bob := env.mustRegister(t, "bob", "bob@example.com", "password1")

	post, err := env.postService.CreatePost(alice.ID, "alice's post")
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if _, err := env.postService.CreateComment(bob.ID, post.ID, "bob says hi"); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	if _, err := env.followService.Follow(bob.ID, "alice"); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	if err := env.userService.DeleteUser(alice.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, err := env.userService.GetByID(alice.ID); err == nil {
		t.Fatalf("deleted user should be gone")
	}

	// 帖子连同挂在上面的他人评论一起删除
	var posts, comments int64
	env.db.Model(&model.Post{}).Count(&posts)
	env.db.Model(&model.Comment{}).Count(&comments)
	if posts != 0 || comments != 0 {
		t.Fatalf("content not cascaded: posts=%d comments=%d", posts, comments)
	}

	// bob 只剩自关注边
	var edges int64
	env.db.Model(&model.Follow{}).Count(&edges)
	if edges != 1 {
		t.Fatalf("expected only bob's self edge, got %d edges", edges)
	}
}

func TestPostsCount(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.mustRegister(t, "alice", "alice@example.com", "password1")

	count, err := env.userService.PostsCount(alice.ID)
	if err != nil || count != 0 {
		t.Fatalf("fresh user posts count = %d (%v)", count, err)
	}

	for i := 0; i < 3; i++ {
		if _, err := env.postService.CreatePost(alice.ID, "post"); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}

	count, err = env.userService.PostsCount(alice.ID)
	if err != nil || count != 3 {
		t.Fatalf("posts count = %d (%v), want 3", count, err)
	}
}

package service

import (
	"testing"

	"github.com/vshalt/chirp/internal/common"
	"github.com/vshalt/chirp/internal/model"
)

func TestFollow_Basic(t *testing.T) {
	env := setupTestEnv(t)
	u1 := env.mustRegister(t, "user1", "u1@example.com", "password1")
	u2 := env.mustRegister(t, "user2", "u2@example.com", "password1")

	before, _ := env.followService.IsFollowing(u1.ID, u2.ID)
	if before {
		t.Fatalf("fresh users should not follow each other")
	}

	if _, err := env.followService.Follow(u1.ID, "user2"); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	following, _ := env.followService.IsFollowing(u1.ID, u2.ID)
	if !following {
		t.Fatalf("u1 should follow u2")
	}
	followedBy, _ := env.followService.IsFollowedBy(u2.ID, u1.ID)
	if !followedBy {
		t.Fatalf("u2 should be followed by u1")
	}
	reverse, _ := env.followService.IsFollowing(u2.ID, u1.ID)
	if reverse {
		t.Fatalf("follow must not be symmetric")
	}

	// 对外计数不含自关注边
	followers, _ := env.followService.FollowerCount(u2.ID)
	if followers != 1 {
		t.Fatalf("u2 follower count = %d, want 1", followers)
	}
	followed, _ := env.followService.FollowedCount(u1.ID)
	if followed != 1 {
		t.Fatalf("u1 followed count = %d, want 1", followed)
	}

	// 自关注边仍在表里，只是被计数排除
	selfEdge, _ := env.followStore.Exists(u2.ID, u2.ID)
	if !selfEdge {
		t.Fatalf("u2 self edge should still exist")
	}
}

func TestFollow_RejectsSelfAndDuplicate(t *testing.T) {
	env := setupTestEnv(t)
	u1 := env.mustRegister(t, "user1", "u1@example.com", "password1")
	env.mustRegister(t, "user2", "u2@example.com", "password1")

	_, err := env.followService.Follow(u1.ID, "user1")
	if serr, ok := common.AsServiceError(err); !ok || serr.Code != common.ErrorCodeValidation {
		t.Fatalf("self follow should be rejected, got %v", err)
	}

	if _, err := env.followService.Follow(u1.ID, "user2"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	_, err = env.followService.Follow(u1.ID, "user2")
	if serr, ok := common.AsServiceError(err); !ok || serr.Code != common.ErrorCodeConflict {
		t.Fatalf("duplicate follow should conflict, got %v", err)
	}

	_, err = env.followService.Follow(u1.ID, "ghost")
	if serr, ok := common.AsServiceError(err); !ok || serr.Code != common.ErrorCodeNotFound {
		t.Fatalf("unknown target should be not found, got %v", err)
	}
}

func TestUnfollow(t *testing.T) {
	env := setupTestEnv(t)
	u1 := env.mustRegister(t, "user1", "u1@example.com", "password1")
	u2 := env.mustRegister(t, "user2", "u2@example.com", "password1")

	if _, err := env.followService.Follow(u1.ID, "user2"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if _, err := env.followService.Unfollow(u1.ID, "user2"); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}

	following, _ := env.followService.IsFollowing(u1.ID, u2.ID)
	if following {
		t.Fatalf("relation should be gone after unfollow")
	}

	// 未关注时再取消关注返回冲突
	_, err := env.followService.Unfollow(u1.ID, "user2")
	if serr, ok := common.AsServiceError(err); !ok || serr.Code != common.ErrorCodeConflict {
		t.Fatalf("unfollow without relation should conflict, got %v", err)
	}

	// 取消关注不影响双方的自关注边：两人各剩一条
	var edges int64
	if err := env.db.Model(&model.Follow{}).Count(&edges).Error; err != nil {
		t.Fatalf("count edges: %v", err)
	}
	if edges != 2 {
		t.Fatalf("expected 2 self edges after unfollow, got %d", edges)
	}
}

func TestFollowers_Listing(t *testing.T) {
	env := setupTestEnv(t)
	u1 := env.mustRegister(t, "user1", "u1@example.com", "password1")
	u2 := env.mustRegister(t, "user2", "u2@example.com", "password1")
	u3 := env.mustRegister(t, "user3", "u3@example.com", "password1")

	if _, err := env.followService.Follow(u1.ID, "user3"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if _, err := env.followService.Follow(u2.ID, "user3"); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	follows, total, err := env.followService.Followers("user3", 0, 10)
	if err != nil {
		t.Fatalf("Followers: %v", err)
	}
	if total != 2 || len(follows) != 2 {
		t.Fatalf("expected 2 followers, got total=%d len=%d", total, len(follows))
	}
	// 列表不包含 user3 自己
	for _, f := range follows {
		if f.FollowerID == u3.ID {
			t.Fatalf("self edge leaked into followers listing")
		}
		if f.Follower == nil {
			t.Fatalf("follower user should be preloaded")
		}
	}

	followed, total, err := env.followService.Followed("user1", 0, 10)
	if err != nil {
		t.Fatalf("Followed: %v", err)
	}
	if total != 1 || len(followed) != 1 || followed[0].FollowedID != u3.ID {
		t.Fatalf("unexpected followed listing: total=%d %+v", total, followed)
	}
}

// 删除用户时清理其作为关注者和被关注者的所有边
func TestDeleteUser_RemovesAllEdges(t *testing.T) {
	env := setupTestEnv(t)
	u1 := env.mustRegister(t, "user1", "u1@example.com", "password1")
	u2 := env.mustRegister(t, "user2", "u2@example.com", "password1")

	if _, err := env.followService.Follow(u1.ID, "user2"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if _, err := env.followService.Follow(u2.ID, "user1"); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	if err := env.userService.DeleteUser(u2.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// 只剩 user1 的自关注边
	var edges []model.Follow
	if err := env.db.Find(&edges).Error; err != nil {
		t.Fatalf("load edges: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge after delete, got %d", len(edges))
	}
	if edges[0].FollowerID != u1.ID || edges[0].FollowedID != u1.ID {
		t.Fatalf("surviving edge should be user1's self edge: %+v", edges[0])
	}
}

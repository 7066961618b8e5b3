package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/vshalt/chirp/internal/middleware"
	"github.com/vshalt/chirp/internal/model"

	"github.com/gin-gonic/gin"
)

func newAPIRouter() *gin.Engine {
	r := gin.New()
	v1 := r.Group("/api/v1")

	v1.GET("/users/:id", testHandler.APIGetUser)
	v1.GET("/users/:id/posts", testHandler.APIListUserPosts)
	v1.GET("/posts", testHandler.APIListPosts)
	v1.GET("/posts/:id", testHandler.APIGetPost)
	v1.GET("/posts/:id/comments", testHandler.APIListPostComments)
	v1.GET("/comments/:id", testHandler.APIGetComment)

	authed := v1.Group("")
	authed.Use(middleware.JWTAuth())
	authed.Use(middleware.ConfirmedCheck(testUserStore))

	authed.GET("/users/:id/timeline", testHandler.APIListUserFollowedPosts)

	write := authed.Group("")
	write.Use(middleware.PermissionRequired(testUserStore, model.PermissionWrite))
	write.POST("/posts", testHandler.APICreatePost)
	write.PUT("/posts/:id", testHandler.APIUpdatePost)

	comment := authed.Group("")
	comment.Use(middleware.PermissionRequired(testUserStore, model.PermissionComment))
	comment.POST("/posts/:id/comments", testHandler.APICreatePostComment)

	moderate := authed.Group("")
	moderate.Use(middleware.PermissionRequired(testUserStore, model.PermissionModerate))
	moderate.GET("/comments", testHandler.APIListComments)
	moderate.PATCH("/comments/:id/disable", testHandler.APIDisableComment)
	moderate.PATCH("/comments/:id/enable", testHandler.APIEnableComment)
	return r
}

// 测试内容：发帖返回 201、Location 头和完整资源表示。
func TestAPICreatePost(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupTestDB(t)
	_, token := createConfirmedUser(t, "alice", "alice@example.com")
	r := newAPIRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/posts", token, gin.H{"body": "hello world"})
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际为 %d body=%s", w.Code, w.Body.String())
	}

	resp := decodeBody(t, w)
	url, _ := resp["url"].(string)
	if url == "" {
		t.Fatalf("响应缺少 url: %v", resp)
	}
	if w.Header().Get("Location") != url {
		t.Fatalf("Location 头与资源 url 不一致: %q vs %q", w.Header().Get("Location"), url)
	}
	if resp["body"] != "hello world" {
		t.Fatalf("body 错误: %v", resp["body"])
	}

	// 未登录发帖返回 401
	w = doJSON(t, r, http.MethodPost, "/api/v1/posts", "", gin.H{"body": "anonymous"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际为 %d", w.Code)
	}

	// 空正文返回 400
	w = doJSON(t, r, http.MethodPost, "/api/v1/posts", token, gin.H{"body": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际为 %d body=%s", w.Code, w.Body.String())
	}
}

// 测试内容：编辑帖子只允许作者或管理员。
func TestAPIUpdatePost_Authorization(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupTestDB(t)
	alice, aliceToken := createConfirmedUser(t, "alice", "alice@example.com")
	_, bobToken := createConfirmedUser(t, "bob", "bob@example.com")
	r := newAPIRouter()

	post, err := testPostService.CreatePost(alice.ID, "original")
	if err != nil {
		t.Fatalf("建帖失败: %v", err)
	}
	path := fmt.Sprintf("/api/v1/posts/%d", post.ID)

	w := doJSON(t, r, http.MethodPut, path, bobToken, gin.H{"body": "hacked"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("期望 403，实际为 %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPut, path, aliceToken, gin.H{"body": "edited"})
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["body"] != "edited" {
		t.Fatalf("正文未更新: %v", resp["body"])
	}
}

// 测试内容：帖子列表分页键与翻页链接。
func TestAPIListPosts_Pagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupTestDB(t)
	alice, _ := createConfirmedUser(t, "alice", "alice@example.com")
	r := newAPIRouter()

	// 默认每页 10 条，建 12 条制造两页
	for i := 0; i < 12; i++ {
		if _, err := testPostService.CreatePost(alice.ID, fmt.Sprintf("post %d", i)); err != nil {
			t.Fatalf("建帖失败: %v", err)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/posts", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	resp := decodeBody(t, w)
	if resp["total"] != float64(12) {
		t.Fatalf("期望 total 12，实际为 %v", resp["total"])
	}
	posts, _ := resp["posts"].([]interface{})
	if len(posts) != 10 {
		t.Fatalf("期望第一页 10 条，实际为 %d", len(posts))
	}
	if _, ok := resp["prev"]; ok {
		t.Fatalf("第一页不应有 prev")
	}
	if _, ok := resp["next"]; !ok {
		t.Fatalf("第一页应有 next")
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/posts?page=2", "", nil)
	resp = decodeBody(t, w)
	posts, _ = resp["posts"].([]interface{})
	if len(posts) != 2 {
		t.Fatalf("期望第二页 2 条，实际为 %d", len(posts))
	}
	if _, ok := resp["next"]; ok {
		t.Fatalf("最后一页不应有 next")
	}
	if _, ok := resp["prev"]; !ok {
		t.Fatalf("第二页应有 prev")
	}
}

// 测试内容：用户资源表示与其帖子、时间线接口。
func TestAPIGetUserAndTimeline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupTestDB(t)
	alice, aliceToken := createConfirmedUser(t, "alice", "alice@example.com")
	bob, _ := createConfirmedUser(t, "bob", "bob@example.com")
	r := newAPIRouter()

	if _, err := testPostService.CreatePost(alice.ID, "from alice"); err != nil {
		t.Fatalf("建帖失败: %v", err)
	}
	if _, err := testPostService.CreatePost(bob.ID, "from bob"); err != nil {
		t.Fatalf("建帖失败: %v", err)
	}
	if _, err := testFollowService.Follow(alice.ID, "bob"); err != nil {
		t.Fatalf("关注失败: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", alice.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	resp := decodeBody(t, w)
	if resp["username"] != "alice" || resp["posts_count"] != float64(1) {
		t.Fatalf("用户资源错误: %v", resp)
	}
	if _, ok := resp["email"]; ok {
		t.Fatalf("用户资源不应暴露邮箱")
	}

	// 时间线包含自己和 bob 的帖子
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/timeline", alice.ID), aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d body=%s", w.Code, w.Body.String())
	}
	resp = decodeBody(t, w)
	if resp["total"] != float64(2) {
		t.Fatalf("期望时间线 2 条，实际为 %v", resp["total"])
	}

	// 时间线需要登录
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/timeline", alice.ID), "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际为 %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/9999", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际为 %d", w.Code)
	}
}

// 测试内容：评论创建与按帖子列出。
func TestAPIComments(t *testing.T) {
	gin.SetMode(gin.TestMode)
	setupTestDB(t)
	alice, aliceToken := createConfirmedUser(t, "alice", "alice@example.com")
	r := newAPIRouter()

	post, err := testPostService.CreatePost(alice.ID, "a post")
	if err != nil {
		t.Fatalf("建帖失败: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID), aliceToken, gin.H{"body": "first!"})
	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际为 %d body=%s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["body"] != "first!" {
		t.Fatalf("评论内容错误: %v", resp)
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/posts/%d/comments", post.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d", w.Code)
	}
	resp = decodeBody(t, w)
	if resp["total"] != float64(1) {
		t.Fatalf("期望评论总数 1，实际为 %v", resp["total"])
	}

	// 评论不存在的帖子返回 404
	w = doJSON(t, r, http.MethodPost, "/api/v1/posts/9999/comments", aliceToken, gin.H{"body": "void"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际为 %d body=%s", w.Code, w.Body.String())
	}
}

// 测试内容：屏蔽评论需要协管权限，普通用户 403。
func TestAPIModerateComments(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gdb := setupTestDB(t)
	alice, aliceToken := createConfirmedUser(t, "alice", "alice@example.com")
	mod, modToken := createConfirmedUser(t, "mod", "mod@example.com")

	// 把 mod 升级为协管员
	var moderator model.Role
	if err := gdb.Where("name = ?", "Moderator").First(&moderator).Error; err != nil {
		t.Fatalf("查角色失败: %v", err)
	}
	mod.RoleID = moderator.ID
	mod.Role = nil
	if err := testUserStore.Save(mod); err != nil {
		t.Fatalf("升级协管失败: %v", err)
	}

	r := newAPIRouter()

	post, err := testPostService.CreatePost(alice.ID, "a post")
	if err != nil {
		t.Fatalf("建帖失败: %v", err)
	}
	comment, err := testPostService.CreateComment(alice.ID, post.ID, "spammy")
	if err != nil {
		t.Fatalf("建评论失败: %v", err)
	}

	disablePath := fmt.Sprintf("/api/v1/comments/%d/disable", comment.ID)

	// 普通用户没有协管权限
	w := doJSON(t, r, http.MethodPatch, disablePath, aliceToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("期望 403，实际为 %d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPatch, disablePath, modToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d body=%s", w.Code, w.Body.String())
	}

	reloaded, _ := testPostService.GetComment(comment.ID)
	if !reloaded.Disabled {
		t.Fatalf("评论应被屏蔽")
	}

	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/comments/%d/enable", comment.ID), modToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d body=%s", w.Code, w.Body.String())
	}
	reloaded, _ = testPostService.GetComment(comment.ID)
	if reloaded.Disabled {
		t.Fatalf("评论应恢复展示")
	}

	// 全站评论列表也要求协管权限
	w = doJSON(t, r, http.MethodGet, "/api/v1/comments", aliceToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("期望 403，实际为 %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/v1/comments", modToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际为 %d body=%s", w.Code, w.Body.String())
	}
}

package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vshalt/chirp/internal/model"
	"github.com/vshalt/chirp/internal/repository"
	"github.com/vshalt/chirp/internal/service"
	"github.com/vshalt/chirp/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID 登录用户 ID 在 gin 上下文中的键
	ContextUserID = "id"
	// ContextUsername 登录用户名在 gin 上下文中的键
	ContextUsername = "username"
	// ContextUser 当前用户完整模型（含角色）在 gin 上下文中的键
	ContextUser = "currentUser"
)

var (
	// confirmedCache 缓存用户确认状态，减少数据库查询
	// Key: userID (uint), Value: cachedConfirmed
	confirmedCache sync.Map
)

const confirmedCacheTTL = 1 * time.Minute

type cachedConfirmed struct {
	Confirmed bool
	ExpiresAt time.Time
}

// ClearConfirmedCache 清除指定用户的确认状态缓存
func ClearConfirmedCache(userID uint) {
	confirmedCache.Delete(userID)

	if redisClient := service.GetRedisClient(); redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		key := service.RedisKey("auth", "confirmed", strconv.FormatUint(uint64(userID), 10))
		_ = redisClient.Del(ctx, key).Err()
	}
}

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取请求头 Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "需要认证才能访问"})
			c.Abort()
			return
		}

		// 检查格式是否为 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 格式错误"})
			c.Abort()
			return
		}

		// 解析 Token
		claims, err := utils.ParseLoginToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 无效或已过期"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.ID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// ConfirmedCheck 拦截未完成邮箱确认的账号。
// 优先读 Redis，其次本地缓存，最后查库并回填。
func ConfirmedCheck(userStore repository.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get(ContextUserID)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
			c.Abort()
			return
		}

		uid, ok := userID.(uint)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的用户ID类型"})
			c.Abort()
			return
		}

		var (
			confirmed      bool
			confirmedFound bool
		)

		// 优先从 Redis 读取
		if redisClient := service.GetRedisClient(); redisClient != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			key := service.RedisKey("auth", "confirmed", strconv.FormatUint(uint64(uid), 10))
			cachedStr, err := redisClient.Get(ctx, key).Result()
			if err == nil {
				confirmed = cachedStr == "1"
				confirmedFound = true
				confirmedCache.Store(uid, cachedConfirmed{
					Confirmed: confirmed,
					ExpiresAt: time.Now().Add(confirmedCacheTTL),
				})
			}
		}

		// Redis 未命中或不可用时，回退本地内存缓存
		if !confirmedFound {
			if val, ok := confirmedCache.Load(uid); ok {
				cached, typeOk := val.(cachedConfirmed)
				if typeOk {
					if time.Now().Before(cached.ExpiresAt) {
						confirmed = cached.Confirmed
						confirmedFound = true
					} else {
						confirmedCache.Delete(uid)
					}
				}
			}
		}

		// 缓存未命中或过期时查询数据库
		if !confirmedFound {
			user, err := userStore.FindByID(uid)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "用户不存在"})
				c.Abort()
				return
			}
			confirmed = user.Confirmed

			// 写入缓存
			confirmedCache.Store(uid, cachedConfirmed{
				Confirmed: confirmed,
				ExpiresAt: time.Now().Add(confirmedCacheTTL),
			})

			if redisClient := service.GetRedisClient(); redisClient != nil {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()

				value := "0"
				if confirmed {
					value = "1"
				}
				key := service.RedisKey("auth", "confirmed", strconv.FormatUint(uint64(uid), 10))
				_ = redisClient.Set(ctx, key, value, confirmedCacheTTL).Err()
			}
		}

		if !confirmed {
			c.JSON(http.StatusForbidden, gin.H{"error": "请先完成邮箱确认"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// PermissionRequired 校验当前用户是否拥有指定权限位。
// 未认证身份对任何权限都返回 false。
func PermissionRequired(userStore repository.UserStore, perm model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := loadCurrentUser(c, userStore)
		if user == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "没有权限执行该操作"})
			c.Abort()
			return
		}
		if !user.Can(perm) {
			c.JSON(http.StatusForbidden, gin.H{"error": "没有权限执行该操作"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// LastSeen 刷新认证用户的最后活跃时间
func LastSeen(userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, exists := c.Get(ContextUserID); exists {
			if uid, ok := userID.(uint); ok {
				_ = userService.Ping(uid)
			}
		}
		c.Next()
	}
}

// loadCurrentUser 加载当前用户（含角色），同一请求内只查一次库
func loadCurrentUser(c *gin.Context, userStore repository.UserStore) *model.User {
	if val, exists := c.Get(ContextUser); exists {
		if user, ok := val.(*model.User); ok {
			return user
		}
	}

	userID, exists := c.Get(ContextUserID)
	if !exists {
		return nil
	}
	uid, ok := userID.(uint)
	if !ok {
		return nil
	}

	user, err := userStore.FindByID(uid)
	if err != nil {
		return nil
	}
	c.Set(ContextUser, user)
	return user
}

// CurrentUser 从上下文取出（或按需加载）当前用户
func CurrentUser(c *gin.Context, userStore repository.UserStore) *model.User {
	return loadCurrentUser(c, userStore)
}

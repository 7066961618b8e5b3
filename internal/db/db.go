package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/vshalt/chirp/internal/config"
	"github.com/vshalt/chirp/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open 按配置建立数据库连接并完成迁移和角色种子数据。
// 连接句柄由调用方持有并注入到各仓储，不使用包级单例。
func Open(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Database.Type {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.Name,
		)
		if cfg.Database.SSL {
			dsn += "&tls=true"
		}
		dialector = mysql.Open(dsn)
	case "postgres":
		sslMode := "disable"
		if cfg.Database.SSL {
			sslMode = "require"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.Database.Host,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
			cfg.Database.Port,
			sslMode,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		fallthrough
	default:
		// 自动创建数据库目录
		dbDir := filepath.Dir(cfg.Database.Filename)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("无法创建数据库目录 '%s': %w", dbDir, err)
		}

		// 启用 WAL 模式和繁忙等待，提升 SQLite 并发性能
		dsn := cfg.Database.Filename + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
		dialector = sqlite.Open(dsn)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	// 获取底层 sql.DB 以配置连接池
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取 sql.DB: %w", err)
	}

	// 配置连接池
	if cfg.Database.Type == "sqlite" || cfg.Database.Type == "" {
		// SQLite 建议单连接写
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		// MySQL/PostgreSQL 可以支持更高并发
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetMaxIdleConns(10)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	log.Printf("✅ 数据库(%s)连接成功，表结构已同步", cfg.Database.Type)
	return gdb, nil
}

// Migrate 同步表结构并写入角色种子数据
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Follow{},
		&model.Post{},
		&model.Comment{},
	)
	if err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	if err := SeedRoles(gdb); err != nil {
		return fmt.Errorf("角色初始化失败: %w", err)
	}
	return nil
}

// SeedRoles 幂等写入内置角色。重复执行只会把权限位和默认标记
// 修正到预期值，不会产生重复行。默认角色有且仅有 User 一个。
func SeedRoles(gdb *gorm.DB) error {
	roles := []struct {
		Name        string
		Permissions model.Permission
		Default     bool
	}{
		{
			Name:        "User",
			Permissions: model.PermissionFollow | model.PermissionComment | model.PermissionWrite,
			Default:     true,
		},
		{
			Name:        "Moderator",
			Permissions: model.PermissionFollow | model.PermissionComment | model.PermissionWrite | model.PermissionModerate,
			Default:     false,
		},
		{
			Name: "Administrator",
			Permissions: model.PermissionFollow | model.PermissionComment | model.PermissionWrite |
				model.PermissionModerate | model.PermissionAdmin,
			Default: false,
		},
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		for _, seed := range roles {
			var role model.Role
			err := tx.Where("name = ?", seed.Name).First(&role).Error
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				role = model.Role{Name: seed.Name}
			}
			role.Permissions = seed.Permissions
			role.Default = seed.Default
			if err := tx.Save(&role).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

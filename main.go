package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vshalt/chirp/internal/config"
	"github.com/vshalt/chirp/internal/consts"
	"github.com/vshalt/chirp/internal/db"
	"github.com/vshalt/chirp/internal/di"
	"github.com/vshalt/chirp/internal/service"
)

func main() {

	configDir := flag.String("config", "config", "配置文件目录")
	exportRoutes := flag.Bool("export", false, "导出路由到 routes.json 并退出")
	seedCount := flag.Int("seed", 0, "生成指定数量的测试用户与帖子后退出")
	flag.Parse()

	config.InitConfig(*configDir)

	gormDB, err := db.Open(config.Get())
	if err != nil {
		log.Fatal("❌ 数据库初始化失败: ", err)
	}

	app, err := di.InitializeApplication(gormDB)
	if err != nil {
		log.Fatal("❌ 应用初始化失败: ", err)
	}

	// 填充测试数据模式
	if *seedCount > 0 {
		seedFakeData(app.FakeService, *seedCount)
		return
	}

	gin.SetMode(config.Get().Server.Mode)

	r := gin.Default()
	app.Router.Init(r)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "API not found"})
	})

	// 导出模式
	if *exportRoutes {
		exportAPI(r)
		return // 导出后直接退出程序，不启动 Web 服务
	}

	printWelcomeMessage()

	// 停机配置
	srv := &http.Server{
		Addr:    ":" + config.Get().Server.Port,
		Handler: r,
	}

	go func() {
		// 服务连接
		log.Printf("🚀 服务启动成功，运行在 :%s\n", config.Get().Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ 服务启动失败: %s\n", err)
		}
	}()

	// 等待中断信号关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ 服务强制关闭:", err)
	}

	if err := service.CloseRedisClient(); err != nil {
		log.Printf("⚠️ Redis 连接关闭失败: %v", err)
	}
	log.Println("✅ 服务已退出")
}

func seedFakeData(fake *service.FakeService, count int) {
	users, err := fake.Users(count)
	if err != nil {
		log.Fatal("❌ 生成测试用户失败: ", err)
	}
	if err := fake.Posts(users, count); err != nil {
		log.Fatal("❌ 生成测试帖子失败: ", err)
	}
	log.Printf("✅ 已生成 %d 个测试用户和 %d 条测试帖子\n", count, count)
}

func printWelcomeMessage() {
	fmt.Println()
	fmt.Println(" ┌───────────────────────────────────────────────────────┐")
	fmt.Printf(" │   🚀  %s\n", consts.ApplicationName)
	fmt.Println(" ├───────────────────────────────────────────────────────┤")
	fmt.Printf(" │   📦  版本     : %s\n", consts.ApplicationVersion)
	fmt.Printf(" │   🔥  服务端口 : %s\n", config.Get().Server.Port)
	fmt.Println(" └───────────────────────────────────────────────────────┘")
	fmt.Println()
}

func exportAPI(r *gin.Engine) {
	routes := r.Routes()

	// 简单的结构体，只留关键信息
	type RouteInfo struct {
		Method  string `json:"method"`
		Path    string `json:"path"`
		Handler string `json:"handler"`
	}

	var exportList []RouteInfo
	for _, route := range routes {
		exportList = append(exportList, RouteInfo{
			Method:  route.Method,
			Path:    route.Path,
			Handler: route.Handler,
		})
	}

	file, _ := json.MarshalIndent(exportList, "", "  ")
	_ = os.WriteFile("routes.json", file, 0644)

	println("✅ 路由已成功导出到 routes.json")
}

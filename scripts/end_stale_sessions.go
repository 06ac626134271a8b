// 手动触发清理滞留会话脚本
//
// 该功能已集成到主应用的后台定时任务中（每 5 分钟自动执行一次）。
// 此脚本仅用于手动触发，例如服务长时间停机后重新上线时批量清理。
//
// 用法: go run scripts/end_stale_sessions.go

package main

import (
	"context"
	"log"
	"os"

	"studysprint_backend/internal/config"
	"studysprint_backend/internal/service"
	"studysprint_backend/internal/util"
	"studysprint_backend/pkg/database"
	"studysprint_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}
	if cfg.Session.StaleAfterMinutes <= 0 {
		cfg.Session.StaleAfterMinutes = 120
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	sessionService := service.NewSessionService(db, nil, &cfg, util.NewKeyedMutex())
	sessionService.EndStaleSessions(context.Background())

	log.Println("滞留会话清理完成")
}

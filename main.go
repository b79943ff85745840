// @title PromptEdu 后端 API
// @version 1.0
// @description 儿童提示词学习平台的自适应学习分析引擎。

// @host localhost:8080
// @BasePath /api

package main

import (
	"flag"
	"log"
	"prompt_edu_backend/internal/app"
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}

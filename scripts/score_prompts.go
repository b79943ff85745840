// 批量评分脚本
//
// 从标准输入逐行读取提示词文本，用当前配置的词表评分并打印结果。
// 调整 configs/config.yaml 里的词表后，用它检查分数分布是否合理。
//
// 用法: go run scripts/score_prompts.go < prompts.txt

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	scorer := service.NewScoringService(cfg.Engine, cfg.Vocabulary)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := scanner.Text()
		if text == "" {
			continue
		}

		score := scorer.Score(text)
		out, err := json.Marshal(score)
		if err != nil {
			log.Fatalf("序列化评分结果失败: %v", err)
		}
		fmt.Printf("%s\t%s\n", text, out)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("读取输入失败: %v", err)
	}
}

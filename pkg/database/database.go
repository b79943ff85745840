package database

import (
	"fmt"
	"log"
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化 MySQL 连接并迁移归档表
// 只有尝试归档使用数据库，引擎本身的状态全部在内存里
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := db.AutoMigrate(&model.AttemptRecord{}); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"prompt_edu_backend/internal/config"
	"prompt_edu_backend/internal/model"
	"prompt_edu_backend/internal/util"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 通用对象存储接口
type StorageProvider interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, filename string) error
	GetURL(filename string) string
}

// LocalStorageProvider 本地磁盘实现
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, filename)
	dir := filepath.Dir(dst)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}

	return p.GetURL(filename), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, filename string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, filename))
}

func (p *LocalStorageProvider) GetURL(filename string) string {
	return "/reports/" + filename
}

// MinioStorageProvider MinIO 实现
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, filename, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(filename), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, filename string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, filename, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) GetURL(filename string) string {
	scheme := "http"
	if p.Config.MinioUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, p.Config.MinioEndpoint, p.Config.MinioBucket, filename)
}

// StorageService 进度报告的导出存储
type StorageService struct {
	provider StorageProvider
}

// NewStorageService 按配置选择存储后端，未配置则导出功能关闭
func NewStorageService(cfg *config.Config) (*StorageService, error) {
	switch cfg.Storage.Type {
	case util.StorageLocal:
		return &StorageService{provider: &LocalStorageProvider{Config: &cfg.Storage}}, nil
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err != nil {
			return nil, err
		}
		return &StorageService{provider: p}, nil
	default:
		return &StorageService{}, nil
	}
}

func (s *StorageService) Enabled() bool {
	return s.provider != nil
}

// ExportReport 把进度快照序列化为 JSON 上传，返回访问地址
func (s *StorageService) ExportReport(ctx context.Context, report *model.ProgressReport) (string, error) {
	if s.provider == nil {
		return "", util.ErrStorageDisabled
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("reports/%s/%s.json", report.UserID, report.GeneratedAt.Format("20060102-150405"))
	return s.provider.Upload(ctx, filename, bytes.NewReader(data), int64(len(data)), "application/json")
}

// BuildReport 汇总一个用户的当前状态为导出快照
func BuildReport(userID string, level *model.UserLevel, achievements []model.Achievement, sessions []model.ProgressSummary) *model.ProgressReport {
	return &model.ProgressReport{
		UserID:       userID,
		GeneratedAt:  time.Now(),
		UserLevel:    *level,
		Achievements: achievements,
		Sessions:     sessions,
	}
}

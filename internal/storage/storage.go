package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"masterhub_backend/internal/config"
)

// Storage - хранилище пользовательских файлов (аватары)
type Storage interface {
	// Save сохраняет объект по ключу
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// URL возвращает публичный адрес объекта
	URL(key string) string
}

// New создает хранилище по типу из конфигурации
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg.BasePath, cfg.BaseURL)
	case "s3", "cloudflare_r2":
		return NewS3Storage(cfg)
	case "gcs":
		return NewGCSStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// AvatarKey - ключ объекта для аватара профиля
func AvatarKey(profileID, fileID, ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		ext = "bin"
	}
	return path.Join("avatars", profileID, fileID+"."+ext)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

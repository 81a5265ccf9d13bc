package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"TCGEventSync/internal/model"

	"github.com/sirupsen/logrus"
)

// 文件后端：两份文档各占一个 JSON 文件，先写临时文件再 rename，保证读端永远看到完整文档。
// 并发重建不互斥，后写者覆盖先写者——当前请求量下可接受的已知限制。

const (
	combinedCacheFile   = "combined_cache.json"
	scraperSnapshotFile = "scraper_snapshot.json"
)

// FileCacheStore 合并缓存的文件实现
type FileCacheStore struct {
	path   string
	ttl    time.Duration
	now    func() time.Time
	logger *logrus.Logger
}

func NewFileCacheStore(dataDir string, ttl time.Duration, logger *logrus.Logger) *FileCacheStore {
	return &FileCacheStore{
		path:   filepath.Join(dataDir, combinedCacheFile),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

func (s *FileCacheStore) Read(ctx context.Context) (*model.CacheDocument, error) {
	_ = ctx
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取合并缓存文件失败: %w", err)
	}
	var doc model.CacheDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("解析合并缓存文件失败: %w", err)
	}
	return &doc, nil
}

func (s *FileCacheStore) Write(ctx context.Context, doc *model.CacheDocument) error {
	_ = ctx
	doc.LastUpdated = s.now()
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("序列化合并缓存失败: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// IsValid 文档存在且未超过 TTL 时为真
func (s *FileCacheStore) IsValid(ctx context.Context) bool {
	doc, err := s.Read(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("合并缓存有效性检查失败，按过期处理")
		return false
	}
	if doc == nil {
		return false
	}
	return s.now().Sub(doc.LastUpdated) < s.ttl
}

// FileSnapshotStore 爬虫快照的文件实现
type FileSnapshotStore struct {
	path   string
	logger *logrus.Logger
}

func NewFileSnapshotStore(dataDir string, logger *logrus.Logger) *FileSnapshotStore {
	return &FileSnapshotStore{
		path:   filepath.Join(dataDir, scraperSnapshotFile),
		logger: logger,
	}
}

func (s *FileSnapshotStore) Read(ctx context.Context) ([]model.RawScraperRecord, error) {
	_ = ctx
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取爬虫快照文件失败: %w", err)
	}
	var records []model.RawScraperRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("解析爬虫快照文件失败: %w", err)
	}
	return records, nil
}

func (s *FileSnapshotStore) Write(ctx context.Context, records []model.RawScraperRecord) error {
	_ = ctx
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("序列化爬虫快照失败: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// writeFileAtomic 临时文件 + rename 整体覆盖
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("覆盖文档文件失败: %w", err)
	}
	return nil
}

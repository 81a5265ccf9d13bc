package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"TCGEventSync/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 数据库后端：两份文档各占 documents 表中的一行，按 name 唯一键整行覆盖，
// 与文件后端同一份契约——整份读、整份写、从不局部更新。

func readDocument(ctx context.Context, db *gorm.DB, name string) ([]byte, error) {
	var row model.StoredDocument
	err := db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取文档%s失败: %w", name, err)
	}
	return row.Payload, nil
}

func writeDocument(ctx context.Context, db *gorm.DB, name string, payload []byte) error {
	row := &model.StoredDocument{
		Name:      name,
		Payload:   payload,
		UpdatedAt: time.Now(),
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(row).Error; err != nil {
		return fmt.Errorf("写入文档%s失败: %w", name, err)
	}
	return nil
}

// DBCacheStore 合并缓存的数据库实现
type DBCacheStore struct {
	db     *gorm.DB
	ttl    time.Duration
	now    func() time.Time
	logger *logrus.Logger
}

func NewDBCacheStore(db *gorm.DB, ttl time.Duration, logger *logrus.Logger) *DBCacheStore {
	return &DBCacheStore{db: db, ttl: ttl, now: time.Now, logger: logger}
}

func (s *DBCacheStore) Read(ctx context.Context) (*model.CacheDocument, error) {
	payload, err := readDocument(ctx, s.db, model.DocCombinedCache)
	if err != nil || payload == nil {
		return nil, err
	}
	var doc model.CacheDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("解析合并缓存文档失败: %w", err)
	}
	return &doc, nil
}

func (s *DBCacheStore) Write(ctx context.Context, doc *model.CacheDocument) error {
	doc.LastUpdated = s.now()
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("序列化合并缓存失败: %w", err)
	}
	return writeDocument(ctx, s.db, model.DocCombinedCache, payload)
}

func (s *DBCacheStore) IsValid(ctx context.Context) bool {
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

// DBSnapshotStore 爬虫快照的数据库实现
type DBSnapshotStore struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewDBSnapshotStore(db *gorm.DB, logger *logrus.Logger) *DBSnapshotStore {
	return &DBSnapshotStore{db: db, logger: logger}
}

func (s *DBSnapshotStore) Read(ctx context.Context) ([]model.RawScraperRecord, error) {
	payload, err := readDocument(ctx, s.db, model.DocScraperSnapshot)
	if err != nil || payload == nil {
		return nil, err
	}
	var records []model.RawScraperRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("解析爬虫快照文档失败: %w", err)
	}
	return records, nil
}

func (s *DBSnapshotStore) Write(ctx context.Context, records []model.RawScraperRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("序列化爬虫快照失败: %w", err)
	}
	return writeDocument(ctx, s.db, model.DocScraperSnapshot, payload)
}

package repository

import (
	"context"

	"TCGEventSync/internal/model"
)

// CombinedCacheStore 合并缓存文档的唯一属主：整份读、整份写、TTL 判定。
// IsValid 是聚合服务决定是否重建的唯一闸门。
type CombinedCacheStore interface {
	// Read 从未写入过时返回 (nil, nil)
	Read(ctx context.Context) (*model.CacheDocument, error)
	// Write 整份覆盖；写入时由存储层盖 LastUpdated 戳，跨多次写入单调不减
	Write(ctx context.Context, doc *model.CacheDocument) error
	// IsValid now - LastUpdated 未超过 TTL 时为真
	IsValid(ctx context.Context) bool
}

// ScraperSnapshotStore 爬虫快照的唯一属主。
// 快照本身没有 TTL 判定——新鲜度由聚合服务按 LastScraperRun 另行判断，且只是信息性的。
type ScraperSnapshotStore interface {
	// Read 从未写入过时返回 (nil, nil)
	Read(ctx context.Context) ([]model.RawScraperRecord, error)
	Write(ctx context.Context, records []model.RawScraperRecord) error
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

// 数据库后端的两份持久化文档名
const (
	DocCombinedCache   = "combined_cache"
	DocScraperSnapshot = "scraper_snapshot"
)

// StoredDocument 持久化文档行：name 唯一，payload 是整份 JSON 文档。
// 与文件后端的约定一致：只做整行覆盖，从不局部更新。
type StoredDocument struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Name      string         `gorm:"column:name;type:varchar(64);uniqueIndex;not null;comment:文档名"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb;not null;comment:完整文档内容"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (StoredDocument) TableName() string { return "documents" }

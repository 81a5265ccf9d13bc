package model

import (
	"time"
)

// EventSource 事件来源枚举
type EventSource string

const (
	SourceScraper EventSource = "scraper" // 爬虫协作方产出的快照
	SourceLocator EventSource = "locator" // 远端赛事定位服务
)

// EventCategory 赛事级别枚举（只收录 premier 级别的 Cup / Challenge 两类）
type EventCategory string

const (
	CategoryCup       EventCategory = "cup"
	CategoryChallenge EventCategory = "challenge"
)

// Event 归一化、去重之后对外提供的单场店铺赛事
type Event struct {
	Source        EventSource   `json:"source"`                   // 来源标签：从归一化那一刻起显式携带，不靠所在切片判断
	Category      EventCategory `json:"category"`                 // 赛事级别
	Name          string        `json:"name"`                     // 赛事名称
	Date          string        `json:"date"`                     // ISO 日期 YYYY-MM-DD
	Time          string        `json:"time,omitempty"`           // 12小时制开始时间，可为空
	Shop          string        `json:"shop"`                     // 店铺名称（展示用原文，不是归一化键）
	Address       string        `json:"address,omitempty"`        // 街道地址
	City          string        `json:"city,omitempty"`           // 城市
	State         string        `json:"state,omitempty"`          // 州/省
	Country       string        `json:"country,omitempty"`        // 国家
	Latitude      *float64      `json:"latitude,omitempty"`       // 坐标（定位服务来源才有）
	Longitude     *float64      `json:"longitude,omitempty"`      // 坐标
	DistanceMiles *float64      `json:"distance_miles,omitempty"` // 距查询原点的英里数：仅当查询方给了坐标且事件自带坐标时填充
}

// Coordinates 查询原点坐标
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// QueryLocation 构建合并缓存时使用的查询位置（含半径）
type QueryLocation struct {
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
	RadiusMiles float64 `json:"radius_miles"`
}

// Summary 合并结果概要：总数、各来源条数、不同店铺数
type Summary struct {
	Total        int `json:"total"`
	ScraperCount int `json:"scraper"`
	LocatorCount int `json:"locator"`
	ShopCount    int `json:"shops"`
}

// CacheDocument 合并缓存文档：整份创建、整份覆盖，从不局部修改。
// LastUpdated 由存储层在写入时盖戳，跨多次写入单调不减。
type CacheDocument struct {
	BuildID        string        `json:"build_id"`                   // 每轮重建的唯一标识，方便在日志里区分相邻两轮
	LastUpdated    time.Time     `json:"last_updated"`               // 本文档写入时间（TTL 判定依据）
	LastScraperRun *time.Time    `json:"last_scraper_run,omitempty"` // 最近一次爬虫快照更新时间，可为空
	Location       QueryLocation `json:"location"`                   // 构建本文档时使用的查询位置
	Summary        Summary       `json:"summary"`
	Events         []Event       `json:"events"`
}

package interfaces

import (
	"context"

	"TCGEventSync/internal/model"
)

// EventLocator 远端赛事定位服务的客户端接口
type EventLocator interface {
	Name() string
	// Fetch 按查询位置拉取原始记录；上游不可用时内部降级，不向调用方抛网络错误
	Fetch(ctx context.Context, loc model.QueryLocation, countryCode, region string) ([]model.RawLocatorRecord, error)
}

// GeocodeResult 地点解析结果
type GeocodeResult struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	Region    string  `json:"region"`
}

// Geocoder 自由文本地点 → 坐标的黑盒协作方
type Geocoder interface {
	Lookup(ctx context.Context, location string) (GeocodeResult, error)
}

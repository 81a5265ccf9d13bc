package service

import (
	"sort"
	"strings"

	"TCGEventSync/internal/geo"
	"TCGEventSync/internal/model"
	"TCGEventSync/internal/normalize"

	"github.com/sirupsen/logrus"
)

// MergeService 合并器：把爬虫快照与定位服务的拉取结果合成一份去重、地理过滤、排序后的集合
type MergeService struct {
	logger *logrus.Logger
}

func NewMergeService(logger *logrus.Logger) *MergeService {
	return &MergeService{logger: logger}
}

// Combine 按固定次序合成：爬虫记录先插入（权威来源，覆盖定位服务不收录的店铺），
// 定位服务记录后插入、撞键即丢——两个来源报告同一场赛事时以爬虫版本为准，
// 该场赛事定位服务一侧的费用、报名链接等属性随之丢弃（已知限制，不做字段级合并）。
// origin 为空时不做距离标注也不做半径过滤。
func (s *MergeService) Combine(scraperRecords []model.RawScraperRecord, locatorRecords []model.RawLocatorRecord, origin *model.Coordinates, radiusMiles float64) []model.Event {
	seen := make(map[string]struct{}, len(scraperRecords)+len(locatorRecords))
	events := make([]model.Event, 0, len(scraperRecords)+len(locatorRecords))

	dropped := 0
	for _, r := range scraperRecords {
		e, ok := s.normalizeScraperRecord(r)
		if !ok {
			dropped++
			continue
		}
		key := normalize.DedupKey(e.Date, e.Shop, e.Category)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		events = append(events, e)
	}

	skipped := 0
	for _, r := range locatorRecords {
		e, ok := s.normalizeLocatorRecord(r)
		if !ok {
			dropped++
			continue
		}
		key := normalize.DedupKey(e.Date, e.Shop, e.Category)
		if _, dup := seen[key]; dup {
			skipped++
			continue
		}
		seen[key] = struct{}{}
		events = append(events, e)
	}

	// 距离标注与半径过滤：只有查询方给了原点、事件自带坐标时才有距离。
	// 爬虫来源的记录通常无坐标、且已由爬虫按地区圈定，因此从不按半径剔除。
	if origin != nil {
		kept := make([]model.Event, 0, len(events))
		for _, e := range events {
			if e.Latitude != nil && e.Longitude != nil {
				d := geo.DistanceMiles(origin.Latitude, origin.Longitude, *e.Latitude, *e.Longitude)
				e.DistanceMiles = &d
				if e.Source == model.SourceLocator && radiusMiles > 0 && d > radiusMiles {
					continue
				}
			}
			kept = append(kept, e)
		}
		events = kept
	}

	SortEvents(events)
	if dropped > 0 || skipped > 0 {
		s.logger.Infof("合并完成：丢弃无效记录%d条，去重跳过%d条，产出%d场赛事", dropped, skipped, len(events))
	}
	return events
}

// normalizeScraperRecord 爬虫记录归一化。日期解析失败或关键字段为空时整条丢弃，绝不猜测。
func (s *MergeService) normalizeScraperRecord(r model.RawScraperRecord) (model.Event, bool) {
	if !normalize.IsPremierType(r.Type) {
		return model.Event{}, false
	}
	if strings.TrimSpace(r.Shop) == "" {
		return model.Event{}, false
	}
	date := normalize.LongFormDate(r.Date)
	if date == "" {
		s.logger.WithField("date", r.Date).Debug("爬虫记录日期无法解析，丢弃")
		return model.Event{}, false
	}
	return model.Event{
		Source:   model.SourceScraper,
		Category: normalize.Category(r.Type),
		Name:     r.Name,
		Date:     date,
		Time:     normalize.To12Hour(r.Time),
		Shop:     r.Shop,
		Address:  r.Address,
		City:     r.City,
		State:    r.State,
		Country:  r.Country,
	}, true
}

// normalizeLocatorRecord 定位服务记录归一化。日期已是 ISO 无解析失败可言，
// 但仍要过 premier 过滤和键构造；坐标原样携带供距离计算使用。
func (s *MergeService) normalizeLocatorRecord(r model.RawLocatorRecord) (model.Event, bool) {
	if !normalize.IsPremierType(r.Type) {
		return model.Event{}, false
	}
	if strings.TrimSpace(r.Shop) == "" || r.Date == "" {
		return model.Event{}, false
	}
	name := r.Name
	if name == "" {
		name = r.Type
	}
	return model.Event{
		Source:    model.SourceLocator,
		Category:  normalize.Category(r.Type),
		Name:      name,
		Date:      r.Date,
		Time:      normalize.To12Hour(timeFromDatetime(r.StartDatetime)),
		Shop:      r.Shop,
		Address:   r.Address,
		City:      r.City,
		State:     r.State,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}, true
}

// timeFromDatetime 从组合日期时间字段（"2026-01-13T14:30:00" 或 "2026-01-13 14:30"）取出 HH:MM
func timeFromDatetime(s string) string {
	idx := strings.IndexAny(s, "T ")
	if idx < 0 {
		return ""
	}
	rest := s[idx+1:]
	if len(rest) < 5 {
		return ""
	}
	return rest[:5]
}

// SortEvents 按日期升序；同日期且双方都有距离时按距离升序，其余保持插入序（稳定排序）
func SortEvents(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		if events[i].DistanceMiles != nil && events[j].DistanceMiles != nil {
			return *events[i].DistanceMiles < *events[j].DistanceMiles
		}
		return false
	})
}

// BuildSummary 统计合并结果概要：总数、各来源条数、不同店铺数（按归一化店名键计）
func BuildSummary(events []model.Event) model.Summary {
	shops := make(map[string]struct{})
	summary := model.Summary{Total: len(events)}
	for _, e := range events {
		switch e.Source {
		case model.SourceScraper:
			summary.ScraperCount++
		case model.SourceLocator:
			summary.LocatorCount++
		}
		shops[normalize.ShopName(e.Shop)] = struct{}{}
	}
	summary.ShopCount = len(shops)
	return summary
}

package service

import (
	"context"
	"time"

	"TCGEventSync/internal/config"
	"TCGEventSync/internal/geo"
	"TCGEventSync/internal/interfaces"
	"TCGEventSync/internal/metrics"
	"TCGEventSync/internal/model"
	"TCGEventSync/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AggregationService 聚合服务：对外唯一的查询入口。
// 缓存有效走缓存，失效则全量重建；自身不持有任何持久状态，
// 两份文档分别由注入的 CombinedCacheStore / ScraperSnapshotStore 独占。
type AggregationService struct {
	cacheStore    repository.CombinedCacheStore
	snapshotStore repository.ScraperSnapshotStore
	locator       interfaces.EventLocator
	merge         *MergeService
	cfg           *config.Config
	logger        *logrus.Logger
	now           func() time.Time
}

func NewAggregationService(
	cacheStore repository.CombinedCacheStore,
	snapshotStore repository.ScraperSnapshotStore,
	locator interfaces.EventLocator,
	cfg *config.Config,
	logger *logrus.Logger,
) *AggregationService {
	return &AggregationService{
		cacheStore:    cacheStore,
		snapshotStore: snapshotStore,
		locator:       locator,
		merge:         NewMergeService(logger),
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

// EventQuery 查询参数
type EventQuery struct {
	CountryCode string
	Latitude    float64
	Longitude   float64
	HasOrigin   bool // 查询方是否提供了坐标
	RadiusMiles float64
	Region      string
	UseCache    bool
}

// EventResult 查询结果
type EventResult struct {
	Events      []model.Event `json:"events"`
	Total       int           `json:"total"`
	FromCache   bool          `json:"from_cache"`
	Summary     model.Summary `json:"summary"`
	LastUpdated time.Time     `json:"last_updated"`
}

// GetEvents 按位置和半径查询赛事。
// 缓存有效时按调用方自己的原点/半径对缓存内容重新过滤后返回；
// 失效则读快照、拉定位服务、合并、整份写回再返回。
func (s *AggregationService) GetEvents(ctx context.Context, q EventQuery) (*EventResult, error) {
	if q.RadiusMiles <= 0 {
		q.RadiusMiles = s.cfg.Query.RadiusMiles
	}

	if q.UseCache && s.cacheStore.IsValid(ctx) {
		doc, err := s.cacheStore.Read(ctx)
		if err == nil && doc != nil {
			events := s.filterCached(doc.Events, q)
			metrics.CacheHits.Inc()
			return &EventResult{
				Events:      events,
				Total:       len(events),
				FromCache:   true,
				Summary:     BuildSummary(events),
				LastUpdated: doc.LastUpdated,
			}, nil
		}
		if err != nil {
			s.logger.WithError(err).Warn("读取合并缓存失败，转为重建")
		}
	}

	metrics.CacheMisses.Inc()
	doc := s.rebuild(ctx, q)
	return &EventResult{
		Events:      doc.Events,
		Total:       len(doc.Events),
		FromCache:   false,
		Summary:     doc.Summary,
		LastUpdated: doc.LastUpdated,
	}, nil
}

// filterCached 缓存文档是按构建时的位置/半径生成的，调用方的半径可能更小、原点可能不同，
// 命中缓存时仍要按调用方自己的原点重算距离、重新过滤（爬虫来源照旧不按半径剔除）。
func (s *AggregationService) filterCached(events []model.Event, q EventQuery) []model.Event {
	kept := make([]model.Event, 0, len(events))
	for _, e := range events {
		if q.HasOrigin && e.Latitude != nil && e.Longitude != nil {
			d := geo.DistanceMiles(q.Latitude, q.Longitude, *e.Latitude, *e.Longitude)
			e.DistanceMiles = &d
			if e.Source == model.SourceLocator && d > q.RadiusMiles {
				continue
			}
		}
		kept = append(kept, e)
	}
	SortEvents(kept)
	return kept
}

// rebuild 常规重建：快照从存储读、LastScraperRun 沿用上一份文档
func (s *AggregationService) rebuild(ctx context.Context, q EventQuery) *model.CacheDocument {
	scraperRecords, err := s.snapshotStore.Read(ctx)
	if err != nil {
		metrics.UpstreamFailures.WithLabelValues(string(model.SourceScraper)).Inc()
		s.logger.WithError(err).Warn("读取爬虫快照失败，本轮按空快照处理")
		scraperRecords = nil
	}
	return s.rebuildWith(ctx, q, scraperRecords, nil)
}

// rebuildWith 全量重建合并缓存：拉定位服务、合并、整份写回。
// 任一上游失败只意味着该来源本轮贡献零条记录；缓存写失败也不影响本次响应，
// 只是后续请求退化为缓存未命中。并发重建不互斥，后写者覆盖先写者。
func (s *AggregationService) rebuildWith(ctx context.Context, q EventQuery, scraperRecords []model.RawScraperRecord, scrapedAt *time.Time) *model.CacheDocument {
	loc := model.QueryLocation{Latitude: q.Latitude, Longitude: q.Longitude, RadiusMiles: q.RadiusMiles}
	locatorRecords, err := s.locator.Fetch(ctx, loc, q.CountryCode, q.Region)
	if err != nil {
		metrics.UpstreamFailures.WithLabelValues(string(model.SourceLocator)).Inc()
		s.logger.WithError(err).Warn("定位服务拉取失败，本轮该来源贡献零条记录")
		locatorRecords = nil
	}

	var origin *model.Coordinates
	if q.HasOrigin {
		origin = &model.Coordinates{Latitude: q.Latitude, Longitude: q.Longitude}
	}
	events := s.merge.Combine(scraperRecords, locatorRecords, origin, q.RadiusMiles)

	lastScraperRun := scrapedAt
	if lastScraperRun == nil {
		// 本轮没有新快照，沿用上一份文档的 LastScraperRun
		if prior, err := s.cacheStore.Read(ctx); err == nil && prior != nil {
			lastScraperRun = prior.LastScraperRun
		}
	}

	doc := &model.CacheDocument{
		BuildID:        uuid.NewString(),
		LastUpdated:    s.now(),
		LastScraperRun: lastScraperRun,
		Location:       loc,
		Summary:        BuildSummary(events),
		Events:         events,
	}
	if err := s.cacheStore.Write(ctx, doc); err != nil {
		metrics.PersistenceFailures.Inc()
		s.logger.WithError(err).Warn("写入合并缓存失败，本次结果照常返回")
	}
	metrics.Rebuilds.Inc()
	metrics.MergedEvents.Set(float64(len(events)))
	s.logger.Infof("合并缓存重建完成[%s]：爬虫%d条 + 定位%d条 → %d场赛事", doc.BuildID, len(scraperRecords), len(locatorRecords), len(events))
	return doc
}

// RefreshFromScrape 管理刷新路径：可携带新抓取的一批记录先落快照并盖 LastScraperRun 戳，
// 随后无条件重建（绕过 TTL 检查）。records 为空时只做强制重建。
func (s *AggregationService) RefreshFromScrape(ctx context.Context, records []model.RawScraperRecord) (*model.CacheDocument, error) {
	var scrapedAt *time.Time
	if len(records) > 0 {
		if err := s.snapshotStore.Write(ctx, records); err != nil {
			// 快照写失败不终止刷新，本轮仍用传入的记录在内存中重建
			metrics.PersistenceFailures.Inc()
			s.logger.WithError(err).Warn("写入爬虫快照失败，本轮仍按传入记录重建")
		}
		t := s.now()
		scrapedAt = &t
		s.logger.Infof("爬虫快照已更新，共%d条记录", len(records))
	} else {
		stored, err := s.snapshotStore.Read(ctx)
		if err != nil {
			metrics.UpstreamFailures.WithLabelValues(string(model.SourceScraper)).Inc()
			s.logger.WithError(err).Warn("读取爬虫快照失败，本轮按空快照处理")
		}
		records = stored
	}

	doc := s.rebuildWith(ctx, s.defaultQuery(), records, scrapedAt)
	return doc, nil
}

// ScraperDataFresh 判断快照是否已到期、需要外部流程重新抓取。
// 信息性判断：过期也不拦截服务，只体现在刷新接口的响应里。
func (s *AggregationService) ScraperDataFresh(doc *model.CacheDocument) bool {
	if doc == nil || doc.LastScraperRun == nil {
		return false
	}
	return s.now().Sub(*doc.LastScraperRun) < s.cfg.Store.ScraperTTL
}

// defaultQuery 管理刷新和定时刷新用的默认查询位置（来自配置）
func (s *AggregationService) defaultQuery() EventQuery {
	q := s.cfg.Query
	return EventQuery{
		CountryCode: q.CountryCode,
		Latitude:    q.Latitude,
		Longitude:   q.Longitude,
		HasOrigin:   q.Latitude != 0 || q.Longitude != 0,
		RadiusMiles: q.RadiusMiles,
		Region:      q.Region,
		UseCache:    false,
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 运行指标，挂在 /metrics 上由 Prometheus 抓取
var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tcgeventsync_cache_hits_total",
		Help: "合并缓存命中次数",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tcgeventsync_cache_misses_total",
		Help: "合并缓存未命中（触发重建）次数",
	})
	Rebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tcgeventsync_rebuilds_total",
		Help: "合并缓存重建次数",
	})
	UpstreamFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tcgeventsync_upstream_failures_total",
		Help: "按来源统计的上游失败次数",
	}, []string{"source"})
	PersistenceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tcgeventsync_persistence_failures_total",
		Help: "持久化写入失败次数（响应仍正常返回）",
	})
	MergedEvents = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tcgeventsync_merged_events",
		Help: "最近一轮重建后的合并赛事数",
	})
)

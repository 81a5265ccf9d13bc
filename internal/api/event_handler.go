package api

import (
	"net/http"
	"strconv"

	"TCGEventSync/internal/config"
	"TCGEventSync/internal/interfaces"
	"TCGEventSync/internal/model"
	"TCGEventSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EventHandler 消费方查询接口
type EventHandler struct {
	service  *service.AggregationService
	geocoder interfaces.Geocoder
	logger   *logrus.Logger
	cfg      *config.Config
}

func NewEventHandler(svc *service.AggregationService, geocoder interfaces.Geocoder, logger *logrus.Logger, cfg *config.Config) *EventHandler {
	return &EventHandler{
		service:  svc,
		geocoder: geocoder,
		logger:   logger,
		cfg:      cfg,
	}
}

// ListEvents 按位置查询附近赛事
// GET /api/events?country=US&lat=34.05&lng=-118.24&radius=50&state=California&use_cache=true
// 也可用 location=自由文本 代替 lat/lng，由地点解析协作方转成坐标。
// 除凭证问题外查询路径从不报错：上游故障、地点解析失败都降级为更少或零条结果。
func (h *EventHandler) ListEvents(c *gin.Context) {
	q := service.EventQuery{
		CountryCode: c.DefaultQuery("country", h.cfg.Query.CountryCode),
		Region:      c.DefaultQuery("state", h.cfg.Query.Region),
		UseCache:    c.DefaultQuery("use_cache", "true") != "false",
	}

	if radius, err := strconv.ParseFloat(c.DefaultQuery("radius", "50"), 64); err == nil && radius > 0 {
		q.RadiusMiles = radius
	}

	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr == nil && lngErr == nil {
			q.Latitude, q.Longitude, q.HasOrigin = lat, lng, true
		}
	} else if location := c.Query("location"); location != "" {
		res, err := h.geocoder.Lookup(c.Request.Context(), location)
		if err != nil {
			// 地点解析失败按上游不可用处理：返回空结果，不报错误页
			h.logger.WithError(err).WithField("location", location).Warn("地点解析失败，返回空结果")
			c.JSON(http.StatusOK, service.EventResult{Events: []model.Event{}})
			return
		}
		q.Latitude, q.Longitude, q.HasOrigin = res.Latitude, res.Longitude, true
		if q.Region == "" || c.Query("state") == "" {
			if res.Region != "" {
				q.Region = res.Region
			}
		}
	}

	result, err := h.service.GetEvents(c.Request.Context(), q)
	if err != nil {
		h.logger.WithError(err).Error("查询赛事失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

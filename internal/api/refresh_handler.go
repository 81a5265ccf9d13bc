package api

import (
	"net/http"

	"TCGEventSync/internal/config"
	"TCGEventSync/internal/model"
	"TCGEventSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RefreshHandler 管理刷新接口：人工或 cron 触发的强制重建路径
type RefreshHandler struct {
	service *service.AggregationService
	logger  *logrus.Logger
	cfg     *config.Config
}

func NewRefreshHandler(svc *service.AggregationService, logger *logrus.Logger, cfg *config.Config) *RefreshHandler {
	return &RefreshHandler{
		service: svc,
		logger:  logger,
		cfg:     cfg,
	}
}

// refreshRequest 请求体可选携带新抓取的一批记录
type refreshRequest struct {
	Events []model.RawScraperRecord `json:"events"`
}

// Refresh 管理刷新
// POST /api/refresh  （X-Refresh-Secret 头或 secret 查询参数携带共享密钥）
// 凭证不符直接拒绝、不产生任何副作用；通过后无条件重建合并缓存（绕过 TTL）。
func (h *RefreshHandler) Refresh(c *gin.Context) {
	if !h.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "刷新凭证缺失或不匹配"})
		return
	}

	var req refreshRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	doc, err := h.service.RefreshFromScrape(c.Request.Context(), req.Events)
	if err != nil {
		h.logger.WithError(err).Error("管理刷新失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "合并缓存重建完成",
		"build_id":           doc.BuildID,
		"summary":            doc.Summary,
		"last_updated":       doc.LastUpdated,
		"last_scraper_run":   doc.LastScraperRun,
		"scraper_data_fresh": h.service.ScraperDataFresh(doc),
	})
}

// authorized 共享密钥校验：header 或 query 任一携带即可；debug（本地开发）模式放行
func (h *RefreshHandler) authorized(c *gin.Context) bool {
	if h.cfg.Server.Mode == "debug" {
		return true
	}
	secret := c.GetHeader("X-Refresh-Secret")
	if secret == "" {
		secret = c.Query("secret")
	}
	return h.cfg.Server.RefreshSecret != "" && secret == h.cfg.Server.RefreshSecret
}

package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"TCGEventSync/internal/config"
	"TCGEventSync/internal/interfaces"
	"TCGEventSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Client 自由文本地点 → 坐标的黑盒协作方客户端。
// 只在查询方没给坐标、给了 location 文本时被调用；失败由查询路径降级为空结果。
type Client struct {
	cfg        *config.ClientConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewGeocodeClient(cfg *config.ClientConfig, logger *logrus.Logger) interfaces.Geocoder {
	return &Client{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// Lookup 解析自由文本地点，返回纬度/经度/地区
func (c *Client) Lookup(ctx context.Context, location string) (interfaces.GeocodeResult, error) {
	lookupURL := fmt.Sprintf("%s/geocode?q=%s", c.cfg.BaseURL, url.QueryEscape(location))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return interfaces.GeocodeResult{}, fmt.Errorf("构造地点解析请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return interfaces.GeocodeResult{}, fmt.Errorf("地点解析请求失败: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Errorf("关闭地点解析响应体失败: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return interfaces.GeocodeResult{}, fmt.Errorf("地点解析服务返回状态码%d", resp.StatusCode)
	}

	var out interfaces.GeocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return interfaces.GeocodeResult{}, fmt.Errorf("解析地点解析响应失败: %w", err)
	}
	return out, nil
}

package locator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"TCGEventSync/internal/config"
	"TCGEventSync/internal/interfaces"
	"TCGEventSync/internal/model"
	"TCGEventSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

type Adapter struct {
	cfg        *config.ClientConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewLocatorAdapter(cfg *config.ClientConfig, logger *logrus.Logger) interfaces.EventLocator {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// Name ========== 实现EventLocator接口 ==========
func (a *Adapter) Name() string {
	return "Locator"
}

// Fetch 对定位服务发起 Cup / Challenge 两路并发请求后拼接。
// 远端单次响应有固定条数上限，按类别拆成两路可把有效覆盖翻倍。
// 两路各写各的结果槽位、互不共享状态；单路失败只损失该类别的记录，不影响另一路。
func (a *Adapter) Fetch(ctx context.Context, loc model.QueryLocation, countryCode, region string) ([]model.RawLocatorRecord, error) {
	var cupRecords, challengeRecords []model.RawLocatorRecord
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		cupRecords = a.fetchCategory(ctx, loc, countryCode, region, model.CategoryCup)
	}()
	go func() {
		defer wg.Done()
		challengeRecords = a.fetchCategory(ctx, loc, countryCode, region, model.CategoryChallenge)
	}()
	wg.Wait()

	records := append(cupRecords, challengeRecords...)
	a.logger.Infof("定位服务拉取完成：cup %d条 + challenge %d条", len(cupRecords), len(challengeRecords))
	return records, nil
}

// fetchCategory 单类别请求。网络失败、超时或非 2xx 一律降级为空切片，
// 本轮该类别贡献零条记录，绝不向上传播错误。
func (a *Adapter) fetchCategory(ctx context.Context, loc model.QueryLocation, countryCode, region string, cat model.EventCategory) []model.RawLocatorRecord {
	filter := model.LocatorFilter{
		CountryCode: countryCode,
		Regions:     []string{region},
		RadiusMiles: loc.RadiusMiles,
		Cup:         cat == model.CategoryCup,
		Challenge:   cat == model.CategoryChallenge,
		// 其余赛事类型全部显式关闭，过滤在远端先做一道
		LeagueNight: false,
		Tournament:  false,
		PreRelease:  false,
		VideoGame:   false,
	}
	body, err := json.Marshal(filter)
	if err != nil {
		a.logger.WithError(err).Warnf("序列化%s类查询载荷失败", cat)
		return nil
	}

	searchURL := fmt.Sprintf("%s/events/search", a.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, searchURL, bytes.NewReader(body))
	if err != nil {
		a.logger.WithError(err).Warnf("构造%s类请求失败", cat)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.WithError(err).Warnf("拉取%s类赛事失败", cat)
		return nil
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			a.logger.Errorf("关闭定位服务响应体失败: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		a.logger.Warnf("定位服务%s类请求返回状态码%d", cat, resp.StatusCode)
		return nil
	}

	var out model.LocatorResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		a.logger.WithError(err).Warnf("解析%s类响应失败", cat)
		return nil
	}
	return out.Events
}

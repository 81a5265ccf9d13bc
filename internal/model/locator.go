package model

// RawLocatorRecord 远端赛事定位服务返回的原始记录。
// 结构松散，可选字段缺省兜底为零值；只在本轮重建期间存在，归一化成 Event 之前不落盘。
type RawLocatorRecord struct {
	GUID            string   `json:"guid"`
	Type            string   `json:"type"` // 自由文本类型
	Name            string   `json:"name"`
	Date            string   `json:"date"`             // 已是 ISO：YYYY-MM-DD
	StartDatetime   string   `json:"start_datetime"`   // 组合日期时间，如 "2026-01-13T14:30:00"
	Shop            string   `json:"store_name"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	State           string   `json:"state"`
	Country         string   `json:"country_code"`
	Cost            string   `json:"cost"`
	RegistrationURL string   `json:"registration_url"`
	JuniorPlayers   int      `json:"junior_players"` // 各年龄组报名人数
	SeniorPlayers   int      `json:"senior_players"`
	MasterPlayers   int      `json:"master_players"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

// LocatorFilter 定位服务的查询载荷。
// 远端按类别开关过滤，所以无关的赛事类型在这里一律显式关闭：
// 过滤一部分在远端完成，剩下的在归一化阶段兜底。
type LocatorFilter struct {
	CountryCode string   `json:"country_code"`
	Regions     []string `json:"regions"`
	RadiusMiles float64  `json:"distance"`
	Cup         bool     `json:"league_cup"`
	Challenge   bool     `json:"league_challenge"`
	LeagueNight bool     `json:"league_night"`
	Tournament  bool     `json:"tournament"`
	PreRelease  bool     `json:"pre_release"`
	VideoGame   bool     `json:"video_game"`
}

// LocatorResponse 定位服务的响应外壳
type LocatorResponse struct {
	Events []RawLocatorRecord `json:"events"`
	Total  int                `json:"total"`
}

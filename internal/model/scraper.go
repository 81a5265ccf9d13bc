package model

// RawScraperRecord 爬虫协作方产出的原始记录。
// 由进程外的爬虫按它自己的节奏生成，本引擎只以快照形式落盘/读取，从不修改单条内容。
type RawScraperRecord struct {
	ID      string `json:"id"`
	Type    string `json:"type"` // 自由文本类型，如 "League Cup" / "League Challenge"
	Name    string `json:"name"`
	Date    string `json:"date"` // 长格式日期，如 "Tuesday, January 13, 2026"
	Time    string `json:"time"` // 可能是 24 小时制也可能已带 AM/PM
	Shop    string `json:"shop"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

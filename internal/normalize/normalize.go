package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"TCGEventSync/internal/model"
)

// 归一化：把两个来源五花八门的字段格式整理成可比较、可存储的规范形式。
// 所有函数都是全函数，绝不 panic；解析失败返回空串哨兵，由调用方决定是否丢弃整条记录。

// shopKeyLen 店名键长度。截断是有意为之：容忍两个来源对同一家店
// 后缀写法不同（LLC、Games 等），同时保留足够区分度避免不同店铺撞键。
const shopKeyLen = 15

var nonAlphaNum = regexp.MustCompile(`[^A-Z0-9]+`)

// ShopName 店名归一化键：大写、去掉所有非字母数字字符、截断到固定长度
func ShopName(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = nonAlphaNum.ReplaceAllString(s, "")
	if len(s) > shopKeyLen {
		s = s[:shopKeyLen]
	}
	return s
}

// IsPremierType 判断自由文本类型是否属于收录范围（Cup / Challenge 级别）。
// 联赛日常、售前赛、其他游戏标题等非 premier 类型必须在进入 Category 之前被这里拒掉。
func IsPremierType(rawType string) bool {
	t := strings.ToLower(rawType)
	return strings.Contains(t, "cup") || strings.Contains(t, "challenge")
}

// Category 把 premier 类型文本归类：含 "cup"（不区分大小写）视为 Cup，其余一律 Challenge。
// 调用前必须先过 IsPremierType，非 premier 文本不允许进入这里。
func Category(rawType string) model.EventCategory {
	if strings.Contains(strings.ToLower(rawType), "cup") {
		return model.CategoryCup
	}
	return model.CategoryChallenge
}

var monthNumbers = map[string]string{
	"january":   "01",
	"february":  "02",
	"march":     "03",
	"april":     "04",
	"may":       "05",
	"june":      "06",
	"july":      "07",
	"august":    "08",
	"september": "09",
	"october":   "10",
	"november":  "11",
	"december":  "12",
}

// 形如 "Tuesday, January 13, 2026"，星期前缀可有可无
var longFormDate = regexp.MustCompile(`(?i)^(?:[a-z]+,\s*)?([a-z]+)\s+(\d{1,2}),\s*(\d{4})$`)

// LongFormDate 解析 "<星期,> 月名 日, 年" 形式的长日期，返回 YYYY-MM-DD。
// 任何不匹配的输入返回空串，调用方应当丢弃该记录而不是猜测日期。
func LongFormDate(raw string) string {
	m := longFormDate.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return ""
	}
	month, ok := monthNumbers[strings.ToLower(m[1])]
	if !ok {
		return ""
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return ""
	}
	return fmt.Sprintf("%s-%s-%02d", m[3], month, day)
}

// To12Hour 把 24 小时制 HH:MM 转为 12 小时制；已带 AM/PM 的原样返回，空串返回空串
func To12Hour(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	upper := strings.ToUpper(s)
	if strings.Contains(upper, "AM") || strings.Contains(upper, "PM") {
		return s
	}
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return s
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return s
	}
	suffix := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		suffix = "PM"
	case hour > 12:
		hour -= 12
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%s %s", hour, parts[1], suffix)
}

// DedupKey 归一化 (日期, 店铺, 级别) 三元组键：两个来源报告同一场赛事时会得到同一个键。
// 键里刻意不含地址和时间，同店同日同级别的两场不同赛事会被并成一场——在当前数据规模下可接受。
func DedupKey(isoDate, shop string, category model.EventCategory) string {
	return isoDate + "|" + ShopName(shop) + "|" + string(category)
}

package search

import "time"

// 可识别的字段取值
const (
	DateToday    = "today"
	DateThisWeek = "this-week"
	IsUnread     = "unread"
	IsProcessed  = "processed"
	HasActions   = "actions"
)

// DateRange 闭区间时间范围
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains 判断时间是否落在闭区间内
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Filters 由解析结果推导出的完整过滤条件
type Filters struct {
	ParsedQuery
	DateRange  *DateRange `json:"dateRange,omitempty"`
	Unread     bool       `json:"unread,omitempty"`
	Processed  bool       `json:"processed,omitempty"`
	HasActions bool       `json:"hasActions,omitempty"`
}

// Resolve 根据 date/is/has 字段推导时间范围和布尔标志
//
// 参数:
//   - parsed: Parse 的结果
//   - now: 当前时间，决定 today 与 this-week 的范围
//
// 返回值:
//   - Filters: 未识别的取值一律忽略
func Resolve(parsed ParsedQuery, now time.Time) Filters {
	f := Filters{ParsedQuery: parsed}

	switch parsed.Date {
	case DateToday:
		f.DateRange = &DateRange{Start: startOfDay(now), End: now}
	case DateThisWeek:
		f.DateRange = &DateRange{Start: startOfWeek(now), End: now}
	}

	switch parsed.Is {
	case IsUnread:
		f.Unread = true
	case IsProcessed:
		f.Processed = true
	}

	if parsed.Has == HasActions {
		f.HasActions = true
	}

	return f
}

// startOfDay 返回 t 所在日期的零点（沿用 t 的时区）
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek 返回 t 所在周周一的零点，周日归属于前一个周一开始的那一周
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday()) // Sunday=0
	offset := weekday - 1
	if weekday == 0 {
		offset = 6
	}
	y, m, d := t.Date()
	// time.Date 会自动处理跨月、跨年
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

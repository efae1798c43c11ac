package search

import "strings"

// 支持的字段限定键
const (
	KeyFrom     = "from"
	KeySubject  = "subject"
	KeyCategory = "category"
	KeyDate     = "date"
	KeyHas      = "has"
	KeyIs       = "is"
)

// ParsedQuery 查询字符串的解析结果
//
// 每个词项只会进入一个位置：某个字段，或 Terms。
// 字段为空字符串表示未设置。
type ParsedQuery struct {
	Terms    []string `json:"terms"`
	From     string   `json:"from,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Category string   `json:"category,omitempty"`
	Date     string   `json:"date,omitempty"`
	Has      string   `json:"has,omitempty"`
	Is       string   `json:"is,omitempty"`
}

// Parse 将查询字符串拆分为字段限定和自由文本词项
//
// 规则:
//   - 去除首尾空白后按连续空白切分
//   - 每个词项在第一个冒号处切分一次，值部分可以继续包含冒号
//   - 没有冒号或值为空（如 "category:"）时，整个词项作为自由文本
//   - 键（不区分大小写）为已知字段时写入对应字段，重复出现以最后一次为准
//   - 未知键保留完整的 "key:value" 作为自由文本
//
// 参数:
//   - query: 原始查询字符串
//
// 返回值:
//   - ParsedQuery: 解析结果，Terms 永远非 nil
func Parse(query string) ParsedQuery {
	parsed := ParsedQuery{Terms: []string{}}

	for _, token := range strings.Fields(query) {
		key, value, found := strings.Cut(token, ":")
		if !found || value == "" {
			parsed.Terms = append(parsed.Terms, token)
			continue
		}

		switch strings.ToLower(key) {
		case KeyFrom:
			parsed.From = value
		case KeySubject:
			parsed.Subject = value
		case KeyCategory:
			parsed.Category = value
		case KeyDate:
			parsed.Date = value
		case KeyHas:
			parsed.Has = value
		case KeyIs:
			parsed.Is = value
		default:
			parsed.Terms = append(parsed.Terms, token)
		}
	}

	return parsed
}

// FirstTerm 返回第一个自由文本词项，没有时返回空字符串
func (q ParsedQuery) FirstTerm() string {
	if len(q.Terms) == 0 {
		return ""
	}
	return q.Terms[0]
}

// lowerTerms 返回小写化后的词项副本
func (q ParsedQuery) lowerTerms() []string {
	out := make([]string, len(q.Terms))
	for i, t := range q.Terms {
		out[i] = strings.ToLower(t)
	}
	return out
}

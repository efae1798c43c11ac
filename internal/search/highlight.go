package search

import (
	"regexp"
	"strings"
)

// 高亮标记
const (
	MarkOpen  = `<mark class="bg-yellow-200">`
	MarkClose = `</mark>`
)

// Highlight 将 text 中与查询字符串匹配的部分包裹在高亮标记中
//
// 按整个查询字符串（去除首尾空白后）做不区分大小写的全局替换，保留原文大小写。
// 不会拆分字段限定，"from:bob" 只匹配字面量 "from:bob"。
// 查询为空或无法编译为正则（例如包含非法 UTF-8）时原样返回 text。
func Highlight(text, query string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return text
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(q))
	if err != nil {
		return text
	}
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return MarkOpen + m + MarkClose
	})
}

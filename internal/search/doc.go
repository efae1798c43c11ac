// Package search 实现仪表盘的客户端邮件搜索。
//
// 查询语法为空白分隔的词项，支持 from:、subject:、category:、date:、has:、is: 字段限定，
// 其余词项作为自由文本。处理流程为 Parse → Resolve → Search，Highlight 独立用于展示字段。
//
// 包内所有函数都是纯函数：不做 I/O，不修改传入的切片，也从不返回错误。
// 无法识别的字段或取值会被宽松地忽略或降级为自由文本。
package search

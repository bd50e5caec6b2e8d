// Package realflow 接收语音助手平台（Vapi）推送的通话事件，从工具调用中提取线索（lead）字段，
// 并按通话 ID 合并落盘为单个 JSON 记录，同时提供只读的记录查看接口。
//
// 该仓库主要包含以下能力：
//  1. 记录存储：record 包按 call_id 读写 logs/call_logs 下的 JSON 文件
//  2. 事件合并：lead 包将 Set_Lead_Field / Submit_Lead 工具调用折叠进记录
//  3. 只读视图：logview + mask 包负责列表、单条查询与 PII 脱敏
//  4. HTTP 层：webhookhttp 包导出 net/http handlers 与 Gin 路由注册方法
package realflow

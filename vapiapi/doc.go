// Package vapiapi 定义 Vapi webhook 入站载荷，以及本服务对外返回的 JSON 结构。
//
// 入站结构中的每个可选键都用指针或 json.RawMessage 表示，缺失与空值是显式分支，
// 不依赖零值兜底。
package vapiapi

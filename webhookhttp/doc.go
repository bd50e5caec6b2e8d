// Package webhookhttp 提供 Vapi webhook 接收与通话记录只读视图的 HTTP 处理器。
//
// 该包对外只暴露：
// - net/http 形式的 handlers（health/ping/webhook 写入/webhook 读取）
// - Gin 路由注册方法与请求 ID 中间件
//
// 读访问令牌仅通过回调注入（TokenProvider），该包不会读取环境变量。
//
// 使用示例：
//
//	// net/http
//	h, _ := webhookhttp.Handlers(webhookhttp.Config{RecordsDir: "logs/call_logs"})
//	mux.HandleFunc("POST /webhook", h.ReceiveWebhook)
//	mux.HandleFunc("GET /webhook", h.ViewRecords)
//
//	// gin
//	_ = webhookhttp.RegisterGinRoutes(r, webhookhttp.Config{
//		RecordsDir:    "logs/call_logs",
//		MaskPII:       true,
//		TokenProvider: func(ctx context.Context) (string, error) { return readToken, nil },
//	})
package webhookhttp

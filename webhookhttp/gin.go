package webhookhttp

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

func RegisterGinRoutes(r gin.IRouter, cfg Config) error {
	if r == nil {
		return fmt.Errorf("router is nil")
	}
	h, err := Handlers(cfg)
	if err != nil {
		return err
	}

	basePath := normalizeBasePath(cfg.BasePath)
	r.GET(basePath, gin.WrapF(h.Health))
	r.POST(joinPath(basePath, "/ping"), gin.WrapF(h.Ping))
	r.POST(joinPath(basePath, "/webhook"), gin.WrapF(h.ReceiveWebhook))
	r.GET(joinPath(basePath, "/webhook"), gin.WrapF(h.ViewRecords))
	return nil
}

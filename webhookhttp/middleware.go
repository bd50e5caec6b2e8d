package webhookhttp

import (
	"net/http"
	"strings"

	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/vapiapi"
	"github.com/gin-gonic/gin"
)

// HeaderRequestID 用于在日志与响应中关联同一请求。
const HeaderRequestID = "X-Request-ID"

// RequestID 为没有携带 X-Request-ID 的请求生成 ID，并回写到响应头。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = vapiapi.NewRequestID()
			c.Request.Header.Set(HeaderRequestID, id)
		}
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func requestIDFrom(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(HeaderRequestID)); id != "" {
		return id
	}
	return "-"
}

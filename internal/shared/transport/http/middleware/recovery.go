package middleware

import (
	"fmt"
	"net/http"

	"BrowserGame/internal/shared/transport"
	"BrowserGame/internal/shared/transport/dto"
	"BrowserGame/modules/kit/errx"
	"BrowserGame/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// Recovery 把 handler 的 panic 记为系统错误，并按统一响应体返回 500 业务码。
// 需挂在 AccessLog 之后，access 日志才能拿到业务码。
func Recovery(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			err := errx.ErrInternal.WithCause(fmt.Errorf("panic: %v", r)).WithData("path", c.Request.URL.Path)
			logx.ReportSysErrorWithLoggerContext(c.Request.Context(), log, logx.NewSysLog("http panic", err))
			c.AbortWithStatusJSON(http.StatusOK, dto.Error(transport.SystemError, "服务器内部错误"))
		}()
		c.Next()
	}
}

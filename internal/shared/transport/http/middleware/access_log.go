package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"BrowserGame/internal/shared/transport"
	"BrowserGame/modules/kit/logx"
	"BrowserGame/modules/kit/tracex"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	TraceHeader  = "X-Trace-Id"
	playerHeader = "X-Player-Id"
)

// quietRoutes 探活与指标抓取频率高，不写 access 日志。
var quietRoutes = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

// jsonCaptureWriter 只缓存 JSON 响应体，用于回填业务码。
type jsonCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *jsonCaptureWriter) capture() bool {
	return strings.HasPrefix(w.Header().Get("Content-Type"), "application/json")
}

func (w *jsonCaptureWriter) Write(data []byte) (int, error) {
	if w.capture() {
		_, _ = w.body.Write(data)
	}
	return w.ResponseWriter.Write(data)
}

func (w *jsonCaptureWriter) WriteString(s string) (int, error) {
	if w.capture() {
		_, _ = w.body.WriteString(s)
	}
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 每个请求一条 access 日志。trace_id 取自请求头（没有则新建）并回写到响应头，
// 业务码取自响应体 {"code": n}。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		if _, ok := quietRoutes[route]; ok {
			c.Next()
			return
		}

		parent := c.Request.Context()
		if tid := strings.TrimSpace(c.GetHeader(TraceHeader)); tid != "" {
			parent = tracex.WithTraceID(parent, tid)
		}
		ctx := transport.NewContextWithParent(parent, c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)
		if tid, ok := tracex.TraceIDFrom(ctx); ok {
			c.Header(TraceHeader, tid)
		}

		bw := &jsonCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		c.Next()

		switch code, ok := parseBizCode(bw.body.Bytes()); {
		case ok:
			transport.SetBizCode(ctx, transport.BizCode(code))
		case c.Writer.Status() >= http.StatusBadRequest:
			transport.SetBizCode(ctx, transport.BizCode(transport.SystemError))
		default:
			transport.SetBizCode(ctx, transport.BizCode(transport.OK))
		}

		var fields []zap.Field
		if pid := c.GetHeader(playerHeader); pid != "" {
			fields = append(fields, zap.String("player_id", pid))
		}
		fields = append(fields, zap.Int("http_status", c.Writer.Status()))
		transport.WriteAccessLog(ctx, log, fields...)
	}
}

func parseBizCode(body []byte) (int, bool) {
	if len(body) == 0 {
		return 0, false
	}
	var payload struct {
		Code *int `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == nil {
		return 0, false
	}
	return *payload.Code, true
}

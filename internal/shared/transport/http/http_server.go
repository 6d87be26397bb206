package http

import (
	"context"
	nethttp "net/http"
	"time"

	"BrowserGame/internal/shared/transport/http/middleware"
	"BrowserGame/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// Registrar 由业务模块实现，把自己的路由挂到根分组。
type Registrar interface {
	HttpRegister(g *gin.RouterGroup)
}

type Server struct {
	engine *gin.Engine
	group  *gin.RouterGroup
	srv    *nethttp.Server
}

// NewHttpServer engine 为 nil 时新建。中间件顺序：Cors → AccessLog → Recovery，
// 保证 panic 也会留下带业务码的 access 日志。
func NewHttpServer(addr string, engine *gin.Engine, log logx.Logger) *Server {
	if engine == nil {
		engine = gin.New()
	}
	if log == nil {
		log = logx.NewNop()
	}
	engine.Use(middleware.Cors(), middleware.AccessLog(log), middleware.Recovery(log))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		engine: engine,
		group:  engine.Group(""),
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

func (s *Server) Register(rs ...Registrar) {
	for _, r := range rs {
		r.HttpRegister(s.group)
	}
}

// Start 阻塞到 Shutdown，正常关闭时返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.srv.Addr
}

func (s *Server) Group() *gin.RouterGroup {
	return s.group
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

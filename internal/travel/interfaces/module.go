package interfaces

import (
	transporthttp "BrowserGame/internal/shared/transport/http"
	"BrowserGame/internal/travel/app"
	"BrowserGame/internal/travel/interfaces/handler/http"
	"BrowserGame/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Module struct {
	httpHandler *http.HttpHandler
}

func New(launch *app.LaunchService, market *app.MarketService, query *app.QueryService, arrivals http.ArrivalProcessor, log logx.Logger) *Module {
	return &Module{
		httpHandler: http.NewHttpHandler(launch, market, query, arrivals, log),
	}
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ transporthttp.Registrar = (*Module)(nil)

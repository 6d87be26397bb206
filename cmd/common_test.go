package cmd

import (
	"testing"

	"BrowserGame/internal/shared/config"
	"BrowserGame/internal/shared/serverconfig"
)

func TestReadConfig_仓库配置可解析(t *testing.T) {
	var c serverconfig.Config
	if err := config.LoadE("configs/conf.yml", &c, false); err != nil {
		t.Fatalf("load config: %v", err)
	}
	c.Travel.WithDefaults()
	if c.Travel.Store != serverconfig.StoreSQLite || c.Travel.TickInterval <= 0 {
		t.Fatalf("期望默认使用 sqlite 且 tick 间隔为正，got=%+v", c.Travel)
	}
	if c.HTTPServer.Port == 0 || c.SQLite.Path == "" {
		t.Fatalf("期望 httpserver.port 与 sqlite.path 已配置，got=%+v", c)
	}
}

package serverconfig

import (
	"BrowserGame/internal/shared/config"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultConfigRelPath = "configs/conf.yml"

var Conf Config

// Load 读取 configs/conf.yml，再用环境变量覆盖，最后补默认值。
// 文件变更后同样重新覆盖环境变量，再调用 onChange。
func Load(onChange ...func()) {
	reload := func() {
		if err := ApplyEnv(&Conf); err != nil {
			fmt.Printf("apply env on config change failed: %v\n", err)
			return
		}
		Conf.Travel.WithDefaults()
		for _, fn := range onChange {
			fn()
		}
	}
	config.Load(defaultConfigRelPath, &Conf, reload)
	if err := ApplyEnv(&Conf); err != nil {
		panic(err)
	}
	Conf.Travel.WithDefaults()
}

func ApplyEnv(c *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.Store != "" {
		c.Travel.Store = o.Store
	}
	if o.History != "" {
		c.Travel.History = o.History
	}
	if o.SQLitePath != "" {
		c.SQLite.Path = o.SQLitePath
	}
	if o.TickInterval > 0 {
		c.Travel.TickInterval = o.TickInterval
	}
	if o.HTTPPort > 0 {
		c.HTTPServer.Port = o.HTTPPort
	}
	if o.MongoURI != "" {
		c.MongoDB.URI = o.MongoURI
	}
	return nil
}

// WithDefaults 补齐未配置的行军参数。
func (t *TravelConfig) WithDefaults() {
	if t.Store == "" {
		t.Store = StoreSQLite
	}
	if t.History == "" {
		t.History = HistorySameStore
	}
	if t.TickInterval <= 0 {
		t.TickInterval = 3 * time.Second
	}
	if t.SecondsPerBlock <= 0 {
		t.SecondsPerBlock = 60
	}
	if t.TradeSecondsPerBlock <= 0 {
		t.TradeSecondsPerBlock = 5
	}
	if t.ClaimLease <= 0 {
		t.ClaimLease = time.Minute
	}
	if t.NodeID <= 0 {
		t.NodeID = 1
	}
}

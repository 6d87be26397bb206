package serverconfig

import "time"

type Config struct {
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	SQLite     SQLiteConfig     `yaml:"sqlite" mapstructure:"sqlite"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	GRPCServer GRPCServerConfig `yaml:"grpcserver" mapstructure:"grpcserver"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Travel     TravelConfig     `yaml:"travel" mapstructure:"travel"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	// AutoMigrate 只在开发环境打开，生产表结构由外部迁移工具维护。
	AutoMigrate bool `yaml:"auto_migrate" mapstructure:"auto_migrate"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type GRPCServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

const (
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"

	HistorySameStore = "store"
	HistoryMongo     = "mongodb"
)

type TravelConfig struct {
	// Store 选择行军/结算存储：sqlite | mysql。
	Store string `yaml:"store" mapstructure:"store"`
	// History 选择战报/交易记录存储：store（与 Store 同库）| mongodb。
	History string `yaml:"history" mapstructure:"history"`
	// TickInterval 定时结算间隔。
	TickInterval time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	// SecondsPerBlock 军队每格基础耗时（秒），再乘最慢兵种的速度百分比。
	SecondsPerBlock int `yaml:"seconds_per_block" mapstructure:"seconds_per_block"`
	// TradeSecondsPerBlock 商队每格耗时（秒）。
	TradeSecondsPerBlock int `yaml:"trade_seconds_per_block" mapstructure:"trade_seconds_per_block"`
	// ClaimLease 认领后超过该时长仍未结算则允许重新认领（进程崩溃恢复）。
	ClaimLease time.Duration `yaml:"claim_lease" mapstructure:"claim_lease"`
	// UnitCatalog 兵种配置文件路径，空则使用内置配置。
	UnitCatalog string `yaml:"unit_catalog" mapstructure:"unit_catalog"`
	// NodeID 雪花 id 节点号。
	NodeID int64 `yaml:"node_id" mapstructure:"node_id"`
}

// envOverrides 允许部署时用环境变量覆盖少量关键项。
type envOverrides struct {
	Store        string        `env:"TRAVEL_STORE"`
	History      string        `env:"TRAVEL_HISTORY"`
	SQLitePath   string        `env:"TRAVEL_SQLITE_PATH"`
	TickInterval time.Duration `env:"TRAVEL_TICK_INTERVAL"`
	HTTPPort     int           `env:"TRAVEL_HTTP_PORT"`
	MongoURI     string        `env:"TRAVEL_MONGO_URI"`
}

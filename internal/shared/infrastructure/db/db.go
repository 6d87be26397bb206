package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"BrowserGame/internal/shared/logs"
	"BrowserGame/internal/shared/serverconfig"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultCharset  = "utf8mb4"
	connMaxLifetime = 30 * time.Minute
	pingTimeout     = 5 * time.Second
	slowSQL         = 200 * time.Millisecond
)

// DSN 拼 mysql 连接串。行军时间以毫秒时间戳落库，会话时区固定 UTC，不随部署机器变化。
func DSN(cfg serverconfig.MySQLConfig) string {
	charset := cfg.Charset
	if charset == "" {
		charset = defaultCharset
	}
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=True&loc=UTC",
		cfg.User, cfg.Password,
		net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		cfg.DBName, charset)
}

// Open 连接并 ping 一次，连不上直接返回错误，不把失败推迟到第一次查询。
func Open(cfg serverconfig.MySQLConfig) (*gorm.DB, error) {
	if cfg.Host == "" || cfg.DBName == "" {
		return nil, errors.New("mysql: host 与 dbname 不能为空")
	}

	gdb, err := gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger:  logs.NewGormLogger(logger.Warn, slowSQL),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("mysql: open %s: %w", cfg.DBName, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("mysql: pool: %w", err)
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("mysql: ping %s: %w", cfg.Host, err)
	}

	logs.Info("mysql connected",
		zap.String("addr", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))),
		zap.String("db", cfg.DBName),
		zap.Int("max_conn", cfg.MaxConn),
	)
	return gdb, nil
}

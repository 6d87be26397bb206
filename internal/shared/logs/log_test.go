package logs

import (
	"os"
	"path/filepath"
	"testing"

	"BrowserGame/internal/shared/serverconfig"

	"go.uber.org/zap/zapcore"
	glogger "gorm.io/gorm/logger"
)

func TestInit_目录配置写入应用名日志文件(t *testing.T) {
	dir := t.TempDir()
	cfg := serverconfig.LogConfig{
		FileDir: dir,
		Level:   "DEBUG",
		MaxSize: 1,
	}
	if err := Init("travel-test", cfg); err != nil {
		t.Fatalf("err=%v", err)
	}
	Info("arrival tick")
	_ = Sync()

	if _, err := os.Stat(filepath.Join(dir, "travel-test.log")); err != nil {
		t.Fatalf("期望写入 travel-test.log，err=%v", err)
	}
}

func TestSetLevel_非法级别报错且不改变当前级别(t *testing.T) {
	if err := SetLevel("warn"); err != nil {
		t.Fatalf("err=%v", err)
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatalf("期望非法级别报错")
	}
	if Logger().Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("期望级别仍为 warn")
	}
	_ = SetLevel("info")
}

func TestGormLogger_LogMode不修改原对象(t *testing.T) {
	base := NewGormLogger(glogger.Warn, 0)
	next := base.LogMode(glogger.Silent)
	if base.(*GormLogger).level != glogger.Warn {
		t.Fatalf("期望原 logger 级别不变")
	}
	if next.(*GormLogger).level != glogger.Silent {
		t.Fatalf("期望新 logger 级别为 Silent")
	}
}

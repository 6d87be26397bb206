package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"BrowserGame/internal/shared/serverconfig"
)

var (
	logger = zap.NewNop()
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init 构建全局 logger：控制台彩色文本；配置了 file_dir 时再 tee 一路 JSON 文件（lumberjack 切割）。
func Init(appName string, cfg serverconfig.LogConfig) error {
	if err := SetLevel(cfg.Level); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	// 2026-01-28T10:00:00 INFO  travel  arrival tick  scheduler.go:88
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	consoleCfg := encoderCfg
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level),
	}

	if cfg.FileDir != "" {
		path, err := logFile(cfg.FileDir, appName)
		if err != nil {
			return err
		}
		// 文件只写 JSON，避免把 ANSI 颜色写进去
		fileCfg := encoderCfg
		fileCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    max(1, cfg.MaxSize),
			MaxBackups: max(0, cfg.MaxBackups),
			MaxAge:     max(0, cfg.MaxAge),
			Compress:   cfg.Compress,
		}), level))
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Dev {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}

	_ = logger.Sync()
	logger = zap.New(zapcore.NewTee(cores...), opts...).Named(appName)
	return nil
}

// logFile file_dir 以 .log 结尾时直接作为文件名，否则视为目录并写入 <app>.log。
func logFile(dir, appName string) (string, error) {
	if strings.HasSuffix(dir, ".log") {
		return dir, os.MkdirAll(filepath.Dir(dir), 0o755)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir log dir: %w", err)
	}
	return filepath.Join(dir, appName+".log"), nil
}

// SetLevel 运行时调整级别（大小写不敏感），配置热更新时调用。
func SetLevel(s string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return fmt.Errorf("parse log level %q: %w", s, err)
	}
	level.SetLevel(lvl)
	return nil
}

// Logger 返回当前全局 zap logger（未初始化时为 Nop），用于构造 logx 适配器。
func Logger() *zap.Logger {
	return logger
}

func Sync() error {
	return logger.Sync()
}

func Debug(msg string, fields ...zap.Field) { logger.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { logger.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { logger.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { logger.Error(msg, fields...) }

// Fatal 输出后 os.Exit(1)。
func Fatal(msg string, fields ...zap.Field) { logger.Fatal(msg, fields...) }

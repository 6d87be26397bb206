package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sample struct {
	Travel struct {
		TickInterval time.Duration `mapstructure:"tick_interval"`
		Seconds      int           `mapstructure:"seconds_per_block"`
	} `mapstructure:"travel"`
}

func TestLoadE_能解析duration字段(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yml")
	raw := "travel:\n  tick_interval: 3s\n  seconds_per_block: 60\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	var got sample
	if err := LoadE(path, &got, false); err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.Travel.TickInterval != 3*time.Second {
		t.Fatalf("期望 tick_interval=3s，got=%v", got.Travel.TickInterval)
	}
	if got.Travel.Seconds != 60 {
		t.Fatalf("期望 seconds_per_block=60，got=%d", got.Travel.Seconds)
	}
}

func TestResolve_向上查找相对路径(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "configs"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	want := filepath.Join(root, "configs", "conf.yml")
	if err := os.WriteFile(want, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	got, err := findUpward(nested, filepath.Join("configs", "conf.yml"))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != want {
		t.Fatalf("期望找到 %q，got=%q", want, got)
	}
}

func TestResolve_文件不存在返回错误(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatalf("期望不存在的绝对路径返回错误")
	}
}

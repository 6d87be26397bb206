package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// mu 串行化初次加载与热更新回调的 Unmarshal。
var mu sync.Mutex

// Load 读取配置文件到 out（yml/json 均可），并监听文件变更热更新。
//
// 约定：
// - path 为相对路径时，先按当前目录解析，不存在则从当前目录向上查找；
// - 变更回调里 Unmarshal 失败只打印日志，保留旧配置，不 panic。
func Load(path string, out any, onChange ...func()) {
	if err := LoadE(path, out, true, onChange...); err != nil {
		panic(err)
	}
}

// LoadE 是 Load 的返回错误版本；watch=false 时不监听变更（测试/一次性加载）。
// onChange 在每次重新解析成功后按顺序调用。
func LoadE(path string, out any, watch bool, onChange ...func()) error {
	configPath, err := Resolve(path)
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err = v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %q: %w", configPath, err)
	}
	if err = unmarshal(v, out); err != nil {
		return fmt.Errorf("unmarshal config %q: %w", configPath, err)
	}

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Println("配置文件变更", e.Name)
			if err := unmarshal(v, out); err != nil {
				log.Printf("viper unmarshal change config data failed, keep old config, err=%v\n", err)
				return
			}
			for _, fn := range onChange {
				fn()
			}
		})
		v.WatchConfig()
	}
	return nil
}

func unmarshal(v *viper.Viper, out any) error {
	mu.Lock()
	defer mu.Unlock()
	return v.Unmarshal(out, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
}

// Resolve 把配置路径解析成存在的绝对路径。
func Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("config path is empty")
	}
	if filepath.IsAbs(path) {
		if !fileExist(path) {
			return "", fmt.Errorf("config file not exist, configPath=%v", path)
		}
		return path, nil
	}

	curDir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findUpward(curDir, path)
}

func findUpward(startDir, rel string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("config file not exist, searched %s from: %s", rel, startDir)
		}
		dir = parent
	}
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}

package unit

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed units.yaml
var defaultYAML []byte

// Stats 是某兵种某等级的只读属性。
type Stats struct {
	Level        int   `yaml:"level"`
	SpeedPercent int64 `yaml:"speed_percent"` // 耗时百分比，100 为基础速度
	Attack       int64 `yaml:"attack"`
	Defense      int64 `yaml:"defense"`
	RangedPower  int64 `yaml:"ranged_power"`
	LootCapacity int64 `yaml:"loot_capacity"`
	Ranged       bool  `yaml:"-"`
}

type unitFile struct {
	Units map[string]struct {
		Ranged bool    `yaml:"ranged"`
		Levels []Stats `yaml:"levels"`
	} `yaml:"units"`
}

// Catalog 兵种配置表，加载后不可变，可并发读。
type Catalog struct {
	levels map[string][]Stats // 按 level 升序
}

// Default 返回内置配置。
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded unit catalog invalid: %v", err))
	}
	return c
}

// Load 从文件加载；path 为空时使用内置配置。
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f unitFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode unit catalog: %w", err)
	}
	if len(f.Units) == 0 {
		return nil, fmt.Errorf("unit catalog is empty")
	}
	c := &Catalog{levels: make(map[string][]Stats, len(f.Units))}
	for name, u := range f.Units {
		if len(u.Levels) == 0 {
			return nil, fmt.Errorf("unit %s: no levels", name)
		}
		ls := make([]Stats, 0, len(u.Levels))
		seen := make(map[int]struct{}, len(u.Levels))
		for _, s := range u.Levels {
			if err := validate(name, s); err != nil {
				return nil, err
			}
			if _, dup := seen[s.Level]; dup {
				return nil, fmt.Errorf("unit %s: duplicate level %d", name, s.Level)
			}
			seen[s.Level] = struct{}{}
			s.Ranged = u.Ranged
			ls = append(ls, s)
		}
		sort.Slice(ls, func(i, j int) bool { return ls[i].Level < ls[j].Level })
		if ls[0].Level != 1 {
			return nil, fmt.Errorf("unit %s: level 1 missing", name)
		}
		c.levels[name] = ls
	}
	return c, nil
}

func validate(name string, s Stats) error {
	switch {
	case s.Level < 1:
		return fmt.Errorf("unit %s: level must be >= 1, got %d", name, s.Level)
	case s.SpeedPercent <= 0:
		return fmt.Errorf("unit %s level %d: speed_percent must be > 0", name, s.Level)
	case s.Attack < 0 || s.Defense < 0 || s.RangedPower < 0 || s.LootCapacity < 0:
		return fmt.Errorf("unit %s level %d: negative stat", name, s.Level)
	}
	return nil
}

// Stats 查询兵种属性。level 小于 1 按 1 处理；超过配置的最高等级时取最高一级。
func (c *Catalog) Stats(unitType string, level int) (Stats, bool) {
	ls, ok := c.levels[unitType]
	if !ok {
		return Stats{}, false
	}
	if level < 1 {
		level = 1
	}
	best := ls[0]
	for _, s := range ls {
		if s.Level > level {
			break
		}
		best = s
	}
	return best, true
}

// Types 返回已配置的兵种名（排序后）。
func (c *Catalog) Types() []string {
	out := make([]string, 0, len(c.levels))
	for name := range c.levels {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

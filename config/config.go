// Package config 加载预处理任务配置：结构体默认值 → YAML 文件 → MINDPREP_ 环境变量，
// 后者覆盖前者，最后用 validator 校验。
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/dataset"
	"github.com/rushteam/mindprep/logging"
	"github.com/rushteam/mindprep/split"
)

// EnvPrefix 是环境变量前缀；嵌套字段用 "__" 分隔，例如 MINDPREP_OUTPUT__DIR。
const EnvPrefix = "MINDPREP_"

// Config 是预处理任务配置。
type Config struct {
	Input  InputConfig  `koanf:"input" yaml:"input"`
	Output OutputConfig `koanf:"output" yaml:"output"`

	MaxLen    int `koanf:"max_len" yaml:"max_len" validate:"gte=1"`
	MinSeqLen int `koanf:"min_seq_len" yaml:"min_seq_len" validate:"gte=1"`
	// Sentinel > 0 时覆盖自动计算的 padding ID
	Sentinel int64 `koanf:"sentinel" yaml:"sentinel" validate:"gte=0"`
	// Workers <= 0 表示 GOMAXPROCS
	Workers int `koanf:"workers" yaml:"workers"`

	Split   split.Config   `koanf:"split" yaml:"split"`
	Log     logging.Config `koanf:"log" yaml:"log"`
	Dataset dataset.Config `koanf:"dataset" yaml:"dataset" validate:"-"`
	Redis   RedisConfig    `koanf:"redis" yaml:"redis"`
}

// InputConfig 是原始数据路径。
type InputConfig struct {
	News string `koanf:"news" yaml:"news" validate:"required"`
	Log  string `koanf:"log" yaml:"log" validate:"required"`
}

// OutputConfig 是产物目录。
type OutputConfig struct {
	Dir string `koanf:"dir" yaml:"dir" validate:"required"`
}

// RedisConfig 用于 publish 命令镜像目录。
type RedisConfig struct {
	Addr string `koanf:"addr" yaml:"addr"`
	DB   int    `koanf:"db" yaml:"db" validate:"gte=0"`
	Key  string `koanf:"key" yaml:"key"`
}

// Default 返回默认配置（路径为 MIND 原始文件名）。
func Default() Config {
	return Config{
		Input:     InputConfig{News: "MIND_news.tsv", Log: "MIND.tsv"},
		Output:    OutputConfig{Dir: "data/ref/mind"},
		MaxLen:    core.DefaultMaxLen,
		MinSeqLen: core.DefaultMinSeqLen,
		Split:     split.DefaultConfig(),
		Log:       logging.Config{Level: "info", Format: "json"},
		Dataset:   dataset.DefaultConfig("data/ref/mind", core.StageTrain),
		Redis:     RedisConfig{Addr: "127.0.0.1:6379"},
	}
}

var validate = validator.New()

// Validate 校验配置。
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Split.TrainRatio+c.Split.ValRatio > 1 {
		return fmt.Errorf("invalid config: split ratios sum to %v > 1", c.Split.TrainRatio+c.Split.ValRatio)
	}
	return nil
}

// Load 按 默认值 → path（为空则跳过）→ 环境变量 的顺序加载并校验。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envTransform: MINDPREP_SPLIT__TRAIN_RATIO -> split.train_ratio
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Package dataset 提供持久化会话表的只读下标访问，供外部训练/评估循环使用。
//
// 数据在加载后不可变，并发读取无需加锁。唯一的共享可变状态是兜底负采样的随机源：
// 多 worker 并发读取时，每个 worker 应通过 Dataset.Reader(workerID) 拿到自己的 Reader，
// 其随机源由 Config.Seed 与 workerID 确定性派生。
package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/rushteam/mindprep/catalog"
	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/filter"
	"github.com/rushteam/mindprep/logging"
	"github.com/rushteam/mindprep/table"
)

// Config 列出 Dataset 识别的全部选项。
type Config struct {
	// DataSource 是预处理产物目录（id2name.txt 与 *_data.db 所在目录）
	DataSource string `koanf:"data_source" yaml:"data_source" validate:"required"`
	// Stage 选择读取哪个分区
	Stage core.Stage `koanf:"stage" yaml:"stage" validate:"required,oneof=train val test"`
	// CansNum 只用于兜底负采样；行都带候选集时可以为 0，
	// 真正走到兜底路径时 < 1 会得到 INVALID_INPUT
	CansNum int `koanf:"cans_num" yaml:"cans_num" validate:"gte=0"`
	// Separator 用于拼接标题
	Separator string `koanf:"separator" yaml:"separator"`
	// Augment 是保留开关，仅在 train 分区生效（见 Dataset.Augment）
	Augment bool `koanf:"augment" yaml:"augment"`
	// Seed 是兜底负采样随机源的基础种子
	Seed int64 `koanf:"seed" yaml:"seed"`
	// Filter 是可选的 CEL 表达式，加载时与 len_seq >= 3 一起生效
	Filter string `koanf:"filter" yaml:"filter"`
}

// DefaultConfig 返回 cans_num=10、分隔符 ", " 的默认配置。
func DefaultConfig(dataSource string, stage core.Stage) Config {
	return Config{
		DataSource: dataSource,
		Stage:      stage,
		CansNum:    10,
		Separator:  ", ",
		Seed:       42,
	}
}

var validate = validator.New()

// Validate 校验配置。
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return core.WrapDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, err, "invalid dataset config")
	}
	return nil
}

// Dataset 是只读的会话数据集。
type Dataset struct {
	cfg     Config
	catalog *catalog.Catalog
	records []core.SessionRecord
	itemIDs []int64 // 升序的目录 ID，兜底负采样的候选空间

	mu  sync.Mutex
	def *Reader
}

// New 加载目录与分区表并复查 len_seq >= 3。
// 任一持久化产物缺失时返回 MISSING_FILE（core.IsMissingFile）。
func New(ctx context.Context, cfg Config) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logging.Component("dataset")

	cat, err := catalog.LoadDumpFile(ctx, filepath.Join(cfg.DataSource, core.CatalogDumpFile))
	if err != nil {
		return nil, err
	}
	raw, err := table.Read(ctx, table.Path(cfg.DataSource, cfg.Stage))
	if err != nil {
		return nil, err
	}

	filters := []filter.Filter{filter.NewMinLenFilter(core.DefaultMinSeqLen)}
	if strings.TrimSpace(cfg.Filter) != "" {
		ef, err := filter.NewExprFilter(cfg.Filter)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, err, "invalid filter expression")
		}
		filters = append(filters, ef)
	}
	records, fres := filter.Apply(ctx, raw, filters...)

	d := &Dataset{
		cfg:     cfg,
		catalog: cat,
		records: records,
		itemIDs: cat.IDs(),
	}
	d.def = d.Reader(0)

	log.Info().
		Str("stage", string(cfg.Stage)).
		Int("rows", len(raw)).
		Int("kept", fres.Kept).
		Interface("filtered", fres.Filtered).
		Int("catalog", cat.Len()).
		Msg("dataset loaded")
	return d, nil
}

// Len 返回过滤后的行数。
func (d *Dataset) Len() int {
	return len(d.records)
}

// Stage 返回分区名。
func (d *Dataset) Stage() core.Stage {
	return d.cfg.Stage
}

// Augment 报告是否应启用数据增强（仅 train 分区且开关打开）。本包不实现增强本身。
func (d *Dataset) Augment() bool {
	return d.cfg.Stage == core.StageTrain && d.cfg.Augment
}

// Catalog 返回只读目录。
func (d *Dataset) Catalog() *catalog.Catalog {
	return d.catalog
}

// Record 返回第 i 行的副本。
func (d *Dataset) Record(i int) (core.SessionRecord, error) {
	if err := d.checkIndex(i); err != nil {
		return core.SessionRecord{}, err
	}
	return d.records[i].Clone(), nil
}

// Get 读取第 i 个样本，使用数据集内置的默认 Reader（加锁串行化兜底采样的随机源）。
// 多 worker 场景请使用 Reader(workerID)。
func (d *Dataset) Get(i int) (core.Sample, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.def.Get(i)
}

func (d *Dataset) checkIndex(i int) error {
	if i < 0 || i >= len(d.records) {
		return core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput,
			fmt.Sprintf("index %d out of range [0, %d)", i, len(d.records)))
	}
	return nil
}

package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/metrics"
	"github.com/rushteam/mindprep/split"
)

// Manifest 记录一次预处理的参数与统计，与产物写在同一目录。
type Manifest struct {
	RunID     string    `yaml:"run_id"`
	CreatedAt time.Time `yaml:"created_at"`

	Sentinel  int64        `yaml:"sentinel"`
	MaxLen    int          `yaml:"max_len"`
	MinSeqLen int          `yaml:"min_seq_len"`
	Split     split.Config `yaml:"split"`

	Catalog CatalogSummary `yaml:"catalog"`
	Log     LogSummary     `yaml:"log"`

	Counts map[core.Stage]int `yaml:"counts"`
}

// CatalogSummary 是目录加载统计。
type CatalogSummary struct {
	Rows     int `yaml:"rows"`
	Loaded   int `yaml:"loaded"`
	Skipped  int `yaml:"skipped"`
	Untitled int `yaml:"untitled"`
}

// LogSummary 是日志行统计；Dropped 按原因计数，包含读取阶段的 malformed。
type LogSummary struct {
	Rows     int            `yaml:"rows"`
	Kept     int            `yaml:"kept"`
	Universe int            `yaml:"universe"`
	Dropped  map[string]int `yaml:"dropped"`
}

func newManifest(st *State, maxLen, minSeqLen int, splitCfg split.Config) *Manifest {
	dropped := make(map[string]int, len(st.Result.Stats.Dropped)+1)
	maps.Copy(dropped, st.Result.Stats.Dropped)
	if st.ParseStats.Malformed > 0 {
		dropped[metrics.ReasonMalformed] += st.ParseStats.Malformed
	}

	counts := make(map[core.Stage]int, 3)
	for _, stage := range core.Stages() {
		counts[stage] = len(st.Partition.Stage(stage))
	}

	return &Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Sentinel:  st.Result.Sentinel,
		MaxLen:    maxLen,
		MinSeqLen: minSeqLen,
		Split:     splitCfg,
		Catalog: CatalogSummary{
			Rows:     st.CatalogStats.Rows,
			Loaded:   st.CatalogStats.Loaded,
			Skipped:  st.CatalogStats.Skipped,
			Untitled: st.CatalogStats.Untitled,
		},
		Log: LogSummary{
			Rows:     st.ParseStats.Rows,
			Kept:     st.Result.Stats.Kept,
			Universe: st.Result.Stats.Universe,
			Dropped:  dropped,
		},
		Counts: counts,
	}
}

// WriteManifest 以 YAML 写出 manifest。
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return core.WrapDomainError(core.ModulePipeline, core.ErrorCodeInternalError, err, "write manifest %s", path)
	}
	return nil
}

// ReadManifest 读取 manifest；文件不存在时返回 MISSING_FILE。
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, core.WrapDomainError(core.ModulePipeline, core.ErrorCodeMissingFile, err, "missing manifest %s", path)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

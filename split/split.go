// Package split 按固定种子把会话表确定性地切分为 train / val / test。
package split

import (
	"fmt"
	"math/rand"

	"github.com/rushteam/mindprep/core"
)

// Config 是切分配置。相同的 Seed、比例与输入顺序总是得到相同的切分。
type Config struct {
	Seed       int64   `koanf:"seed" yaml:"seed"`
	TrainRatio float64 `koanf:"train_ratio" yaml:"train_ratio" validate:"gte=0,lte=1"`
	ValRatio   float64 `koanf:"val_ratio" yaml:"val_ratio" validate:"gte=0,lte=1"`
}

// DefaultConfig: seed 42，70% / 15% / 15%。
func DefaultConfig() Config {
	return Config{Seed: 42, TrainRatio: 0.70, ValRatio: 0.15}
}

// Partition 是切分结果。
type Partition struct {
	Train []core.SessionRecord
	Val   []core.SessionRecord
	Test  []core.SessionRecord
}

// Stage 按分区名返回对应切片。
func (p Partition) Stage(s core.Stage) []core.SessionRecord {
	switch s {
	case core.StageTrain:
		return p.Train
	case core.StageVal:
		return p.Val
	case core.StageTest:
		return p.Test
	}
	return nil
}

// Split 先用固定种子打乱整表，再按连续区间切分：
// 前 floor(TrainRatio*N) 行为 train，接着 floor(ValRatio*N) 行为 val，其余为 test。
// 输入切片不会被修改。
func Split(records []core.SessionRecord, cfg Config) (Partition, error) {
	if cfg.TrainRatio < 0 || cfg.ValRatio < 0 || cfg.TrainRatio+cfg.ValRatio > 1 {
		return Partition{}, core.NewDomainError(core.ModuleSplit, core.ErrorCodeInvalidInput,
			fmt.Sprintf("invalid split ratios train=%v val=%v", cfg.TrainRatio, cfg.ValRatio))
	}

	shuffled := make([]core.SessionRecord, len(records))
	copy(shuffled, records)
	//nolint:gosec // 切分只需要可复现，不涉及安全
	rng := rand.New(rand.NewSource(cfg.Seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	n := len(shuffled)
	nTrain := int(float64(n) * cfg.TrainRatio)
	nVal := int(float64(n) * cfg.ValRatio)

	return Partition{
		Train: shuffled[:nTrain:nTrain],
		Val:   shuffled[nTrain : nTrain+nVal : nTrain+nVal],
		Test:  shuffled[nTrain+nVal:],
	}, nil
}

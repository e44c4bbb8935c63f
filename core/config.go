package core

import "fmt"

// Stage 是数据集分区名称，决定读取哪一张持久化表。
type Stage string

const (
	StageTrain Stage = "train"
	StageVal   Stage = "val"
	StageTest  Stage = "test"
)

// Stages 按写出顺序返回全部分区。
func Stages() []Stage {
	return []Stage{StageTrain, StageVal, StageTest}
}

// ParseStage 解析分区名称，仅接受 train / val / test。
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageTrain, StageVal, StageTest:
		return Stage(s), nil
	}
	return "", NewDomainError(ModuleDataset, ErrorCodeInvalidInput,
		fmt.Sprintf("unknown stage %q (want train, val or test)", s))
}

// TableFile 返回分区对应的表文件名。
func (s Stage) TableFile() string {
	return string(s) + "_data.db"
}

// 产物文件名
const (
	CatalogDumpFile = "id2name.txt"
	ManifestFile    = "manifest.yaml"
)

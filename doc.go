// Package mindprep 把 MIND 新闻推荐数据预处理为会话推荐数据集。
//
// 设计要点：
// - Pipeline-first: 预处理通过 Node 串联（读目录 → 读日志 → 构建会话 → 切分 → 写出）
// - 两遍构建: padding sentinel 在第一遍全局确定，第二遍按行并发
// - 读取期组装: Dataset 按下标拼出带标题的样本，候选集缺失时走负采样兜底
package mindprep

import (
	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/dataset"
	"github.com/rushteam/mindprep/pipeline"
)

// 轻量 facade：便于用户直接 import "mindprep" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind
type Preprocessor = pipeline.Preprocessor
type Manifest = pipeline.Manifest

type Dataset = dataset.Dataset
type DatasetConfig = dataset.Config

type SessionRecord = core.SessionRecord
type Sample = core.Sample
type Stage = core.Stage

const (
	KindLoad    = pipeline.KindLoad
	KindBuild   = pipeline.KindBuild
	KindSplit   = pipeline.KindSplit
	KindPersist = pipeline.KindPersist

	StageTrain = core.StageTrain
	StageVal   = core.StageVal
	StageTest  = core.StageTest
)

var (
	NewPreprocessor = pipeline.NewPreprocessor
	NewDataset      = dataset.New
)

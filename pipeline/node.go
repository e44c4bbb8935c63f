package pipeline

import (
	"context"

	"github.com/rushteam/mindprep/catalog"
	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/sequence"
	"github.com/rushteam/mindprep/split"
)

// Kind 用于标记 Node 所处阶段，方便按阶段打点。
type Kind string

const (
	KindLoad    Kind = "load"    // 读取原始文件
	KindBuild   Kind = "build"   // 构建会话记录
	KindSplit   Kind = "split"   // 切分
	KindPersist Kind = "persist" // 写出产物
)

// State 是在 Node 之间传递的中间结果，每个 Node 只填充自己负责的字段。
type State struct {
	Catalog      *catalog.Catalog
	CatalogStats catalog.Stats

	Rows       []core.RawLogRow
	ParseStats sequence.ParseStats

	Result    *sequence.Result
	Partition split.Partition

	Manifest *Manifest
}

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“读取 State -> 写回 State”的形态，前置字段缺失时返回 INVALID_INPUT。
type Node interface {
	Name() string
	Kind() Kind

	Process(ctx context.Context, st *State) error
}

package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/mindprep/catalog"
	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/metrics"
	"github.com/rushteam/mindprep/sequence"
	"github.com/rushteam/mindprep/split"
	"github.com/rushteam/mindprep/table"
)

func requireState(node, field string) error {
	return core.NewDomainError(core.ModulePipeline, core.ErrorCodeInvalidInput,
		node+": "+field+" not produced by an earlier node")
}

// LoadCatalogNode 读取物品元数据文件。
type LoadCatalogNode struct {
	Path string
}

func (n *LoadCatalogNode) Name() string { return "load_catalog" }
func (n *LoadCatalogNode) Kind() Kind   { return KindLoad }

func (n *LoadCatalogNode) Process(ctx context.Context, st *State) error {
	cat, stats, err := catalog.LoadFile(ctx, n.Path)
	if err != nil {
		return err
	}
	st.Catalog, st.CatalogStats = cat, stats
	return nil
}

// ParseLogNode 读取交互日志。
type ParseLogNode struct {
	Path string
}

func (n *ParseLogNode) Name() string { return "parse_log" }
func (n *ParseLogNode) Kind() Kind   { return KindLoad }

func (n *ParseLogNode) Process(ctx context.Context, st *State) error {
	f, err := os.Open(n.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.WrapDomainError(core.ModulePipeline, core.ErrorCodeMissingFile, err, "missing interaction log %s", n.Path)
		}
		return core.WrapDomainError(core.ModulePipeline, core.ErrorCodeInternalError, err, "open interaction log %s", n.Path)
	}
	defer f.Close()

	rows, stats, err := sequence.ParseLog(ctx, f)
	if err != nil {
		return err
	}
	st.Rows, st.ParseStats = rows, stats
	return nil
}

// BuildSessionsNode 用已加载的目录构建会话记录；Builder.Catalog 由 State 注入。
type BuildSessionsNode struct {
	Builder sequence.Builder
}

func (n *BuildSessionsNode) Name() string { return "build_sessions" }
func (n *BuildSessionsNode) Kind() Kind   { return KindBuild }

func (n *BuildSessionsNode) Process(ctx context.Context, st *State) error {
	if st.Catalog == nil {
		return requireState(n.Name(), "catalog")
	}
	b := n.Builder
	b.Catalog = st.Catalog
	res, err := b.Build(ctx, st.Rows)
	if err != nil {
		return err
	}
	st.Result = res
	return nil
}

// SplitNode 确定性切分会话表。
type SplitNode struct {
	Config split.Config
}

func (n *SplitNode) Name() string { return "split" }
func (n *SplitNode) Kind() Kind   { return KindSplit }

func (n *SplitNode) Process(_ context.Context, st *State) error {
	if st.Result == nil {
		return requireState(n.Name(), "sessions")
	}
	part, err := split.Split(st.Result.Records, n.Config)
	if err != nil {
		return err
	}
	st.Partition = part
	return nil
}

// PersistNode 写出三张分区表、目录转储与 manifest。三张表并发写入，互不依赖。
type PersistNode struct {
	Dir       string
	MaxLen    int
	MinSeqLen int
	Split     split.Config
}

func (n *PersistNode) Name() string { return "persist" }
func (n *PersistNode) Kind() Kind   { return KindPersist }

func (n *PersistNode) Process(ctx context.Context, st *State) error {
	if st.Catalog == nil {
		return requireState(n.Name(), "catalog")
	}
	if st.Result == nil {
		return requireState(n.Name(), "sessions")
	}
	if err := os.MkdirAll(n.Dir, 0o755); err != nil {
		return core.WrapDomainError(core.ModulePipeline, core.ErrorCodeInternalError, err, "create output dir %s", n.Dir)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, stage := range core.Stages() {
		stage := stage
		recs := st.Partition.Stage(stage)
		g.Go(func() error {
			if err := table.Write(gctx, table.Path(n.Dir, stage), recs); err != nil {
				return err
			}
			metrics.SessionsWritten.WithLabelValues(string(stage)).Add(float64(len(recs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := st.Catalog.WriteDumpFile(filepath.Join(n.Dir, core.CatalogDumpFile)); err != nil {
		return err
	}

	m := newManifest(st, n.MaxLen, n.MinSeqLen, n.Split)
	if err := WriteManifest(filepath.Join(n.Dir, core.ManifestFile), m); err != nil {
		return err
	}
	st.Manifest = m
	return nil
}

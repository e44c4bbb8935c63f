package pipeline

import (
	"context"

	"github.com/rushteam/mindprep/config"
	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/logging"
	"github.com/rushteam/mindprep/sequence"
)

// Preprocessor 是离线预处理入口：按配置组装 Pipeline 并执行一次。
type Preprocessor struct {
	cfg      *config.Config
	pipeline *Pipeline
}

// NewPreprocessor 校验配置并组装 Node 链。
func NewPreprocessor(cfg *config.Config) (*Preprocessor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{Nodes: []Node{
		&LoadCatalogNode{Path: cfg.Input.News},
		&ParseLogNode{Path: cfg.Input.Log},
		&BuildSessionsNode{Builder: sequence.Builder{
			MaxLen:    cfg.MaxLen,
			MinSeqLen: cfg.MinSeqLen,
			Sentinel:  cfg.Sentinel,
			Workers:   cfg.Workers,
		}},
		&SplitNode{Config: cfg.Split},
		&PersistNode{
			Dir:       cfg.Output.Dir,
			MaxLen:    cfg.MaxLen,
			MinSeqLen: cfg.MinSeqLen,
			Split:     cfg.Split,
		},
	}}
	return &Preprocessor{cfg: cfg, pipeline: p}, nil
}

// Run 执行预处理，返回写出的 manifest。
func (p *Preprocessor) Run(ctx context.Context) (*Manifest, error) {
	st := &State{}
	if err := p.pipeline.Run(ctx, st); err != nil {
		return nil, err
	}
	m := st.Manifest
	log := logging.Component("pipeline")
	log.Info().
		Str("run_id", m.RunID).
		Int64("sentinel", m.Sentinel).
		Int("train", m.Counts[core.StageTrain]).
		Int("val", m.Counts[core.StageVal]).
		Int("test", m.Counts[core.StageTest]).
		Str("output", p.cfg.Output.Dir).
		Msg("preprocess finished")
	return m, nil
}

package sequence

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/mindprep/candidate"
	"github.com/rushteam/mindprep/catalog"
	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/logging"
	"github.com/rushteam/mindprep/metrics"
)

// Builder 两遍扫描构建会话记录：
//   - 第一遍解析全部 token，汇总出现过的 ID，确定 padding sentinel = max + 1
//   - sentinel 确定后（唯一的全局屏障），第二遍按行并发做过滤、截断补齐与候选集组装
type Builder struct {
	Catalog *catalog.Catalog

	MaxLen    int // 默认 core.DefaultMaxLen
	MinSeqLen int // 默认 core.DefaultMinSeqLen

	// Sentinel > 0 时覆盖自动计算的值，但必须大于所有出现过的 ID。
	Sentinel int64

	// Workers 是第二遍的并发数，<= 0 时使用 GOMAXPROCS。
	Workers int
}

// Stats 记录一次构建的行数统计。
type Stats struct {
	Rows     int            `yaml:"rows"`
	Kept     int            `yaml:"kept"`
	Dropped  map[string]int `yaml:"dropped"`
	Universe int            `yaml:"universe"` // 出现过的不同 ID 数
}

// Result 是构建结果。Records 与输入行顺序一致（被丢弃的行不出现）。
type Result struct {
	Records  []core.SessionRecord
	Sentinel int64
	Stats    Stats
}

type parsedRow struct {
	seq    []int64
	gt     []int64
	reason string // 非空表示第一遍已丢弃
}

type rowOutcome struct {
	rec    core.SessionRecord
	reason string
}

func (b *Builder) maxLen() int {
	if b.MaxLen > 0 {
		return b.MaxLen
	}
	return core.DefaultMaxLen
}

func (b *Builder) minSeqLen() int {
	if b.MinSeqLen > 0 {
		return b.MinSeqLen
	}
	return core.DefaultMinSeqLen
}

// Build 把日志行转换为会话记录。不合格的行静默丢弃（计数 + debug 日志），不会让整批失败。
func (b *Builder) Build(ctx context.Context, rows []core.RawLogRow) (*Result, error) {
	if b.Catalog == nil {
		return nil, core.NewDomainError(core.ModuleSequence, core.ErrorCodeInvalidInput, "builder requires a catalog")
	}
	log := logging.Component("sequence")

	// 第一遍
	parsed := make([]parsedRow, len(rows))
	universe := make(map[int64]struct{})
	var maxID int64
	for i, row := range rows {
		seq, ok1 := b.resolveAll(row.Sequence)
		gt, ok2 := b.resolveAll(row.Groundtruth)
		if !ok1 || !ok2 {
			parsed[i].reason = metrics.ReasonUnparsableToken
			continue
		}
		parsed[i].seq, parsed[i].gt = seq, gt
		for _, ids := range [][]int64{seq, gt} {
			for _, id := range ids {
				universe[id] = struct{}{}
				if id > maxID {
					maxID = id
				}
			}
		}
	}

	sentinel := maxID + 1
	if b.Sentinel > 0 {
		if b.Sentinel <= maxID {
			return nil, core.NewDomainError(core.ModuleSequence, core.ErrorCodeInvalidInput,
				fmt.Sprintf("sentinel override %d collides with observed id range (max %d)", b.Sentinel, maxID))
		}
		sentinel = b.Sentinel
	}
	log.Info().Int64("sentinel", sentinel).Int("universe", len(universe)).Msg("padding sentinel determined")

	// 第二遍
	outcomes := make([]rowOutcome, len(rows))
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := (len(rows) + workers - 1) / workers
	eg, egCtx := errgroup.WithContext(ctx)
	for start := 0; start < len(rows); start += chunk {
		lo, hi := start, min(start+chunk, len(rows))
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%1024 == 0 {
					if err := egCtx.Err(); err != nil {
						return err
					}
				}
				outcomes[i] = b.buildRow(rows[i].UserID, parsed[i], sentinel)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Sentinel: sentinel,
		Stats:    Stats{Rows: len(rows), Dropped: make(map[string]int), Universe: len(universe)},
	}
	for i, oc := range outcomes {
		if oc.reason != "" {
			res.Stats.Dropped[oc.reason]++
			log.Debug().Int("line", rows[i].SourceLineNo).Str("reason", oc.reason).Msg("drop log row")
			continue
		}
		res.Records = append(res.Records, oc.rec)
	}
	res.Stats.Kept = len(res.Records)
	for reason, n := range res.Stats.Dropped {
		metrics.RowsDropped.WithLabelValues(reason).Add(float64(n))
	}

	log.Info().
		Int("rows", res.Stats.Rows).
		Int("sessions", res.Stats.Kept).
		Interface("dropped", res.Stats.Dropped).
		Msg("sessions built")
	return res, nil
}

func (b *Builder) resolveAll(tokens []string) ([]int64, bool) {
	ids := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		id, ok := b.Catalog.Resolve(tok)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func (b *Builder) buildRow(userID int64, p parsedRow, sentinel int64) rowOutcome {
	if p.reason != "" {
		return rowOutcome{reason: p.reason}
	}
	if len(p.seq) < b.minSeqLen() {
		return rowOutcome{reason: metrics.ReasonShortSequence}
	}
	next, cands, err := candidate.FromGroundtruth(p.gt)
	if err != nil {
		return rowOutcome{reason: metrics.ReasonEmptyGroundtruth}
	}
	if !b.Catalog.Has(next) {
		return rowOutcome{reason: metrics.ReasonUnknownNext}
	}
	for _, id := range cands {
		if !b.Catalog.Has(id) {
			return rowOutcome{reason: metrics.ReasonUnknownCandidate}
		}
	}

	seq, unpad, lenSeq := Pad(p.seq, b.maxLen(), sentinel)
	return rowOutcome{rec: core.SessionRecord{
		UserID:     userID,
		Seq:        seq,
		SeqUnpad:   unpad,
		LenSeq:     lenSeq,
		Next:       next,
		Candidates: cands,
	}}
}

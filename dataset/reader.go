package dataset

import (
	"strings"

	"github.com/rushteam/mindprep/candidate"
	"github.com/rushteam/mindprep/catalog"
	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/metrics"
	"github.com/rushteam/mindprep/sequence"
)

// Reader 是单个 worker 的读取视图，持有独立的兜底采样随机源。Reader 不是并发安全的。
type Reader struct {
	d       *Dataset
	sampler *candidate.Sampler
}

// Reader 返回 workerID 对应的读取视图；同一 Seed 与 workerID 的采样序列可复现。
func (d *Dataset) Reader(workerID int) *Reader {
	return &Reader{
		d:       d,
		sampler: candidate.NewSampler(candidate.NewWorkerRand(d.cfg.Seed, workerID)),
	}
}

// Get 组装第 i 个样本。
//
// 记录带有候选集时原样使用（正确答案在位置 0）；候选集为空时走兜底负采样，此时每次调用
// 都重新采样，同一下标多次读取会得到不同的干扰项和答案位置（Sample.Fallback 为 true）。
// 读取不会修改任何记录或目录条目。
func (r *Reader) Get(i int) (core.Sample, error) {
	d := r.d
	if err := d.checkIndex(i); err != nil {
		return core.Sample{}, err
	}
	rec := &d.records[i]

	unpad := sequence.Unpad(rec.Seq, rec.LenSeq)
	seqName := catalog.DisplayTitles(d.catalog, unpad)

	var (
		cans     []int64
		fallback bool
	)
	if len(rec.Candidates) > 0 {
		cans = make([]int64, len(rec.Candidates))
		copy(cans, rec.Candidates)
	} else {
		var err error
		cans, err = r.sampler.Sample(d.itemIDs, unpad, rec.Next, d.cfg.CansNum)
		if err != nil {
			metrics.SamplingErrors.Inc()
			return core.Sample{}, err
		}
		fallback = true
		metrics.FallbackSlates.Inc()
	}
	cansName := catalog.DisplayTitles(d.catalog, cans)
	itemName := catalog.DisplayTitle(d.catalog, rec.Next)

	seq := make([]int64, len(rec.Seq))
	copy(seq, rec.Seq)

	return core.Sample{
		Seq:           seq,
		SeqName:       seqName,
		LenSeq:        rec.LenSeq,
		SeqStr:        strings.Join(seqName, d.cfg.Separator),
		Cans:          cans,
		CansName:      cansName,
		CansStr:       strings.Join(cansName, d.cfg.Separator),
		LenCans:       len(cans),
		ItemID:        rec.Next,
		ItemName:      itemName,
		CorrectAnswer: itemName,
		Fallback:      fallback,
	}, nil
}

package filter

import (
	"context"

	"github.com/rushteam/mindprep/core"
)

// MinLenFilter 剔除 LenSeq < MinLen 的记录（加载时对最短历史约束的复查）。
type MinLenFilter struct {
	MinLen int
}

func NewMinLenFilter(minLen int) *MinLenFilter {
	return &MinLenFilter{MinLen: minLen}
}

func (f *MinLenFilter) Name() string {
	return "filter.min_len"
}

func (f *MinLenFilter) ShouldFilter(_ context.Context, rec *core.SessionRecord) (bool, error) {
	if rec == nil {
		return true, nil
	}
	return rec.LenSeq < f.MinLen, nil
}

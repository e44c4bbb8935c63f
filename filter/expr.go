package filter

import (
	"context"

	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/pkg/dsl"
)

// ExprFilter 保留 CEL 表达式求值为 true 的记录，其余剔除。
//
//	f, err := filter.NewExprFilter("size(record.candidates) == 5")
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式；语法错误在构造时返回。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(_ context.Context, rec *core.SessionRecord) (bool, error) {
	if rec == nil {
		return true, nil
	}
	keep, err := f.prg.Eval(*rec)
	if err != nil {
		return false, err
	}
	return !keep, nil
}

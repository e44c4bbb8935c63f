package filter

import (
	"context"

	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/logging"
)

// Result 记录一次过滤的统计：按过滤器名计数剔除条数与出错条数。
type Result struct {
	Kept     int
	Filtered map[string]int
	Errors   map[string]int
}

// Apply 依次用 filters 检查每条记录，任一过滤器返回 true 即剔除。
// 过滤器出错时记录但不中断流程，该过滤器视为不剔除。
// 返回新切片，records 本身不被修改。
func Apply(ctx context.Context, records []core.SessionRecord, filters ...Filter) ([]core.SessionRecord, Result) {
	res := Result{Filtered: make(map[string]int), Errors: make(map[string]int)}
	if len(filters) == 0 {
		out := make([]core.SessionRecord, len(records))
		copy(out, records)
		res.Kept = len(out)
		return out, res
	}

	log := logging.Component("filter")
	out := make([]core.SessionRecord, 0, len(records))
	for i := range records {
		rec := &records[i]
		filtered := false
		for _, f := range filters {
			ok, err := f.ShouldFilter(ctx, rec)
			if err != nil {
				res.Errors[f.Name()]++
				log.Debug().Err(err).Str("filter", f.Name()).Int("row", i).Msg("filter error, keeping row")
				continue
			}
			if ok {
				res.Filtered[f.Name()]++
				filtered = true
				break
			}
		}
		if !filtered {
			out = append(out, *rec)
		}
	}
	res.Kept = len(out)
	return out, res
}

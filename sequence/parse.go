// Package sequence 把交互日志解析为定长的会话记录。
package sequence

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/logging"
	"github.com/rushteam/mindprep/metrics"
	"github.com/rushteam/mindprep/pkg/tsv"
)

// 日志列：0=user_id, 1=历史序列（空格分隔）, 2=groundtruth（空格分隔，首个为正确答案）
const (
	colUser = iota
	colSequence
	colGroundtruth
)

// ParseStats 记录日志读取阶段的统计。
type ParseStats struct {
	Rows      int
	Malformed int
}

// ParseLog 读取制表符分隔的交互日志。
// 缺少序列列或 user_id 无法解析的行被丢弃并计数；缺少 groundtruth 列视为空列表，
// 交给 Builder 按 empty_groundtruth 丢弃。
func ParseLog(ctx context.Context, r io.Reader) ([]core.RawLogRow, ParseStats, error) {
	log := logging.Component("sequence")
	var (
		rows []core.RawLogRow
		st   ParseStats
	)
	err := tsv.Scan(ctx, r, func(lineNo int, fields []string) error {
		st.Rows++
		if len(fields) <= colSequence {
			st.Malformed++
			log.Debug().Int("line", lineNo).Msg("drop log row: missing columns")
			return nil
		}
		userID, err := strconv.ParseInt(strings.TrimSpace(fields[colUser]), 10, 64)
		if err != nil {
			st.Malformed++
			log.Debug().Int("line", lineNo).Str("user_id", fields[colUser]).Msg("drop log row: bad user id")
			return nil
		}
		row := core.RawLogRow{
			UserID:       userID,
			Sequence:     strings.Fields(fields[colSequence]),
			SourceLineNo: lineNo,
		}
		if len(fields) > colGroundtruth {
			row.Groundtruth = strings.Fields(fields[colGroundtruth])
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, st, core.WrapDomainError(core.ModuleSequence, core.ErrorCodeInternalError, err, "read interaction log")
	}
	metrics.RowsRead.Add(float64(st.Rows))
	metrics.RowsDropped.WithLabelValues(metrics.ReasonMalformed).Add(float64(st.Malformed))
	return rows, st, nil
}

// Package metrics 定义预处理与数据集读取的 Prometheus 指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 丢弃原因（rows_dropped_total 的 reason 标签）
const (
	ReasonMalformed        = "malformed"         // 列数不足 / user_id 无法解析
	ReasonUnparsableToken  = "unparsable_token"  // 物品 token 不是 字母+数字
	ReasonShortSequence    = "short_sequence"    // 历史长度 < 3
	ReasonEmptyGroundtruth = "empty_groundtruth" // groundtruth 为空
	ReasonUnknownNext      = "unknown_next"      // 正确答案不在目录中
	ReasonUnknownCandidate = "unknown_candidate" // 候选不在目录中
)

var (
	CatalogItemsLoaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindprep_catalog_items_loaded_total",
			Help: "Total number of news items loaded into a catalog",
		},
	)

	CatalogRowsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindprep_catalog_rows_skipped_total",
			Help: "Total number of metadata rows skipped because the identifier could not be parsed",
		},
	)

	RowsRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindprep_log_rows_read_total",
			Help: "Total number of interaction log rows read",
		},
	)

	RowsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindprep_log_rows_dropped_total",
			Help: "Total number of interaction log rows dropped during preprocessing",
		},
		[]string{"reason"},
	)

	SessionsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindprep_sessions_written_total",
			Help: "Total number of session records persisted",
		},
		[]string{"stage"},
	)

	FallbackSlates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindprep_fallback_slates_total",
			Help: "Total number of candidate slates produced by negative sampling at read time",
		},
	)

	SamplingErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mindprep_sampling_errors_total",
			Help: "Total number of fallback slates that could not be built",
		},
	)
)

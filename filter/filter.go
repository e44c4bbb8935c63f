// Package filter 在加载持久化会话表时按规则剔除记录。
package filter

import (
	"context"

	"github.com/rushteam/mindprep/core"
)

// Filter 判断一条会话记录是否应被剔除。
// 返回 true 表示剔除，false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	ShouldFilter(ctx context.Context, rec *core.SessionRecord) (bool, error)
}

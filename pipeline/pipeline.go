// Package pipeline 把预处理拆成可组合的 Node 链：
// 读目录 → 读日志 → 构建会话 → 切分 → 写出三张表、目录转储与 manifest。
package pipeline

import (
	"context"
	"time"

	"github.com/rushteam/mindprep/logging"
)

// Pipeline 依次执行 Nodes，任一 Node 失败即中止。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(ctx context.Context, st *State) error {
	log := logging.Component("pipeline")
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		if err := node.Process(ctx, st); err != nil {
			log.Error().Err(err).
				Str("node", node.Name()).
				Str("kind", string(node.Kind())).
				Msg("node failed")
			return err
		}
		log.Info().
			Str("node", node.Name()).
			Str("kind", string(node.Kind())).
			Dur("elapsed", time.Since(start)).
			Msg("node done")
	}
	return nil
}

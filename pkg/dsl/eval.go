// Package dsl 用 CEL (Common Expression Language) 对会话记录求值布尔表达式。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/mindprep/core"
	"github.com/rushteam/mindprep/pkg/conv"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("record", cel.MapType(cel.StringType, cel.DynType)),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的表达式，可被多个 goroutine 并发调用 Eval。
//
// 可用字段：
//   - record.user_id / record.len_seq / record.next：int
//   - record.seq_unpad / record.candidates：list(int)
//
// 示例：
//   - `record.len_seq >= 5`
//   - `size(record.candidates) == 5 && !(record.next in record.seq_unpad)`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；表达式必须返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression %q must return bool, got %s", expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Eval 对一条记录求值。
func (p *Program) Eval(rec core.SessionRecord) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{"record": recordInput(rec)})
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return boolean, got %T", p.expr, out.Value())
	}
	return result, nil
}

func recordInput(rec core.SessionRecord) map[string]any {
	return map[string]any{
		"user_id":    rec.UserID,
		"len_seq":    int64(rec.LenSeq),
		"next":       rec.Next,
		"seq_unpad":  conv.ToAnySlice(rec.SeqUnpad),
		"candidates": conv.ToAnySlice(rec.Candidates),
	}
}

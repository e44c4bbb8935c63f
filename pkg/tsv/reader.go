// Package tsv 逐行读取无表头、无引号的制表符分隔文件。
//
// MIND 的标题/正文里常带裸双引号，encoding/csv 即便开启 LazyQuotes 也会把行首引号当作
// 引用字段处理，因此这里按行切分、按 '\t' 拆列。
package tsv

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// MaxLineSize 是单行最大字节数（正文字段可能很长）。
const MaxLineSize = 16 << 20

// checkEvery 行检查一次 ctx，避免每行都做 select。
const checkEvery = 4096

// Scan 对每个非空行回调 fn；lineNo 从 1 开始，行尾的 "\r" 会被去掉。
// fn 返回错误时立即停止并返回该错误。
func Scan(ctx context.Context, r io.Reader, fn func(lineNo int, fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(lineNo, strings.Split(line, "\t")); err != nil {
			return err
		}
	}
	return sc.Err()
}
